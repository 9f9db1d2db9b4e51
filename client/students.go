package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core/student"
)

func (c *Client) ListStudents(ctx context.Context) ([]student.Student, error) {
	var out []student.Student
	err := c.getJSON(ctx, "/estudiantes", &out)
	return out, err
}

func (c *Client) GetStudent(ctx context.Context, id int) (student.Student, error) {
	var out student.Student
	err := c.getJSON(ctx, fmt.Sprintf("/estudiantes/%d", id), &out)
	return out, err
}

func (c *Client) CreateStudent(ctx context.Context, data student.NewStudent) (student.Student, error) {
	var out student.Student
	if err := data.Validate(); err != nil {
		return out, err
	}
	err := c.postJSON(ctx, "/estudiantes", data, &out)
	return out, err
}

func (c *Client) UpdateStudent(ctx context.Context, id int, data student.UpdateStudent) (student.Student, error) {
	var out student.Student
	err := c.putJSON(ctx, fmt.Sprintf("/estudiantes/%d", id), data, &out)
	return out, err
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/estudiantes/%d", id))
}

// ImportStudents uploads a roster file; the API parses it and answers
// with a structured outcome report (created/skipped/errored with
// per-item reasons).
func (c *Client) ImportStudents(ctx context.Context, filename string, file io.Reader) (student.ImportReport, error) {
	var out student.ImportReport

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return out, errors.Wrap(err, "building import form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return out, errors.Wrap(err, "copying import file")
	}
	if err := mw.Close(); err != nil {
		return out, errors.Wrap(err, "closing import form")
	}

	err = c.do(ctx, http.MethodPost, "/estudiantes/importar", &body, mw.FormDataContentType(), &out)
	return out, err
}
