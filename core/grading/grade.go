package grading

import (
	"time"

	"github.com/uia-acad/notas/core"
)

// Record is one student's grade record for one week. Field names and JSON
// tags follow the API contract.
type Record struct {
	ID        int  `json:"Id_nota"`
	StudentID int  `json:"Id_estudiante"`
	Week      Week `json:"Semana"`

	Asistencia float64 `json:"Asistencia"`
	Tc         float64 `json:"Tc"`
	Quices     float64 `json:"Quices"`
	Compendium float64 `json:"Compendium"`
	Cc         float64 `json:"Cc"`
	ParcialI   float64 `json:"Parcial_i"`
	ParcialII  float64 `json:"Parcial_ii"`
	ParcialIII float64 `json:"Parcial_iii"`
	Simulacion float64 `json:"Simulacion"`
	Infografia float64 `json:"Infografia"`
}

// Value returns the grade stored under the given wire field name.
func (r Record) Value(field string) float64 {
	switch field {
	case "Asistencia":
		return r.Asistencia
	case "Tc":
		return r.Tc
	case "Quices":
		return r.Quices
	case "Compendium":
		return r.Compendium
	case "Cc":
		return r.Cc
	case "Parcial_i":
		return r.ParcialI
	case "Parcial_ii":
		return r.ParcialII
	case "Parcial_iii":
		return r.ParcialIII
	case "Simulacion":
		return r.Simulacion
	case "Infografia":
		return r.Infografia
	}
	return 0
}

// SetValue stores a grade under the given wire field name. Unknown fields
// are ignored.
func (r *Record) SetValue(field string, v float64) {
	switch field {
	case "Asistencia":
		r.Asistencia = v
	case "Tc":
		r.Tc = v
	case "Quices":
		r.Quices = v
	case "Compendium":
		r.Compendium = v
	case "Cc":
		r.Cc = v
	case "Parcial_i":
		r.ParcialI = v
	case "Parcial_ii":
		r.ParcialII = v
	case "Parcial_iii":
		r.ParcialIII = v
	case "Simulacion":
		r.Simulacion = v
	case "Infografia":
		r.Infografia = v
	}
}

// Update contains one rubric-field edit for one week. It maps to the
// partial PUT payload the API expects: the week plus a single field.
type Update struct {
	Week  Week    `json:"Semana" validate:"academicweek"`
	Field string  `json:"campo" validate:"required"`
	Value float64 `json:"valor"`
}

// Validate rejects the edit locally so no out-of-range value is ever sent
// to the store. Week and field go through the shared struct validator;
// the value is checked with ValidateValue so the range rejection stays a
// distinct error.
func (u *Update) Validate() error {
	if err := core.Validate.Struct(u); err != nil {
		return err
	}
	if err := ValidateValue(u.Value); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: u.Field, Error: err.Error()})
	}
	return nil
}

// Payload builds the wire payload for the update.
func (u Update) Payload() map[string]interface{} {
	return map[string]interface{}{
		"Semana": u.Week,
		u.Field: u.Value,
	}
}

// HistoryEntry is one audited change to a grade record.
type HistoryEntry struct {
	ID          int       `json:"Id_historial"`
	GradeID     int       `json:"Id_nota"`
	Field       string    `json:"Campo_modificado"`
	OldValue    *float64  `json:"Valor_anterior"`
	NewValue    *float64  `json:"Valor_nuevo"`
	ModifiedAt  time.Time `json:"Fecha_modificacion"`
	TeacherName string    `json:"profesor_nombre"`
}
