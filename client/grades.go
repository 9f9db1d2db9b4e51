package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uia-acad/notas/core/grading"
)

func (c *Client) StudentGrades(ctx context.Context, studentID int) ([]grading.Record, error) {
	var out []grading.Record
	err := c.getJSON(ctx, fmt.Sprintf("/notas/estudiante/%d", studentID), &out)
	return out, err
}

// FinalGrade returns the server-computed final score with its per-rubric
// breakdown.
func (c *Client) FinalGrade(ctx context.Context, studentID int) (grading.FinalGrade, error) {
	var out grading.FinalGrade
	err := c.getJSON(ctx, fmt.Sprintf("/notas/estudiante/%d/calculada", studentID), &out)
	return out, err
}

// InitializeWeeks asks the API to create empty grade records for every
// week of the term for the student.
func (c *Client) InitializeWeeks(ctx context.Context, studentID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/notas/inicializar-semanas/%d", studentID), nil, "", nil)
}

// UpdateGrade submits one rubric-field edit. The value is validated
// locally first: an out-of-range grade never makes the round-trip.
func (c *Client) UpdateGrade(ctx context.Context, gradeID int, upd grading.Update) (grading.Record, error) {
	var out grading.Record
	if err := upd.Validate(); err != nil {
		return out, err
	}
	err := c.putJSON(ctx, fmt.Sprintf("/notas/%d", gradeID), upd.Payload(), &out)
	return out, err
}

func (c *Client) CreateGrade(ctx context.Context, rec grading.Record) (grading.Record, error) {
	var out grading.Record
	err := c.postJSON(ctx, "/notas", rec, &out)
	return out, err
}

// StudentHistory lists the most recent audited changes across the
// student's grade records.
func (c *Client) StudentHistory(ctx context.Context, studentID, limit int) ([]grading.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []grading.HistoryEntry
	err := c.getJSON(ctx, fmt.Sprintf("/notas/historial/estudiante/%d?limit=%d", studentID, limit), &out)
	return out, err
}

func (c *Client) GradeHistory(ctx context.Context, gradeID int) ([]grading.HistoryEntry, error) {
	var out []grading.HistoryEntry
	err := c.getJSON(ctx, fmt.Sprintf("/notas/historial/nota/%d", gradeID), &out)
	return out, err
}

// ExportGrades downloads the student's spreadsheet export. The server
// decides the format; the returned Download carries its content type and
// suggested filename alongside the bytes.
func (c *Client) ExportGrades(ctx context.Context, studentID int) (Download, error) {
	var out Download
	err := c.getJSON(ctx, fmt.Sprintf("/notas/estudiante/%d/export-excel", studentID), &out)
	return out, err
}
