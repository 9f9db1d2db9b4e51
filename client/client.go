package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core"
)

// SessionSource is the session owner the client leans on: it supplies the
// bearer token, gets stamped on every authenticated call (network use
// counts as activity), and is invalidated when the API rejects the token.
// Satisfied by *session.Manager.
type SessionSource interface {
	Token() string
	Touch()
	Invalidate()
}

// Client is a typed client for the grade-management API.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionSource
	logger  core.Logger
}

func New(conf *core.Config, sess SessionSource, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.APIBaseURL, "/"),
		http:    &http.Client{Timeout: conf.RequestTimeout},
		session: sess,
		logger:  logger,
	}
}

// Download is a raw file payload. Filename carries the server's
// Content-Disposition suggestion when one was sent, otherwise "".
type Download struct {
	Data        []byte
	Filename    string
	ContentType string
}

// do runs one authenticated request. A 401 here (never on login, which
// has its own path) invalidates the session: the owner forces
// re-authentication.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		c.session.Touch()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if dl, ok := out.(*Download); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrapf(err, "reading %s %s response", method, path)
		}
		dl.Data = data
		dl.ContentType = resp.Header.Get("Content-Type")
		if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
			dl.Filename = params["filename"]
		}
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

func (c *Client) apiError(method, path string, resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	detail := body.message()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.logger.Warn("API rejected the session token on " + method + " " + path)
		c.session.Invalidate()
		return ErrSessionInvalid
	case http.StatusUnprocessableEntity:
		return &ValidationRejection{Detail: detail}
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, body, "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

func decodeJSON(resp *http.Response, out interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func encodeJSON(in interface{}) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}
	return &buf, nil
}
