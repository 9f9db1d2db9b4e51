package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core"
)

// Credentials is the login form. The password minimum matches what the
// API enforces, so obviously-bad input never leaves the client.
type Credentials struct {
	Email    string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. Deliberately not routed
// through do(): a 401 here is a credential rejection for the caller to
// surface, never a reason to tear down an existing session. 401, 403 and
// 404 all collapse into ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("username", creds.Email)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "posting login")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{Status: resp.StatusCode}
	}

	var out loginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login response carries no access token")
	}
	return out.AccessToken, nil
}
