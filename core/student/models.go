package student

import (
	"github.com/uia-acad/notas/core"
)

// Student is a student record as served by the API.
type Student struct {
	ID        int    `json:"Id_estudiante"`
	FirstName string `json:"Nombre"`
	LastName  string `json:"Apellido"`
	Matricula string `json:"Matricula"`
	Email     string `json:"Email"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FirstName string `json:"Nombre" validate:"required"`
	LastName  string `json:"Apellido" validate:"required"`
	Matricula string `json:"Matricula" validate:"required,alphanum"`
	Email     string `json:"Email" validate:"required,email"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Matricula = core.CleanString(ns.Matricula, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Empty fields keep their current value.
type UpdateStudent struct {
	FirstName string `json:"Nombre"`
	LastName  string `json:"Apellido"`
	Matricula string `json:"Matricula" validate:"omitempty,alphanum"`
	Email     string `json:"Email" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.FirstName); name != "" {
		us.FirstName = name
	} else {
		us.FirstName = orig.FirstName
	}
	if name := core.CleanString(us.LastName); name != "" {
		us.LastName = name
	} else {
		us.LastName = orig.LastName
	}
	if matricula := core.CleanString(us.Matricula, true /* lower */); matricula != "" {
		us.Matricula = matricula
	} else {
		us.Matricula = orig.Matricula
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	return core.Validate.Struct(us)
}

// ImportReport is the structured outcome of a bulk import-by-file call:
// counts plus per-item reasons.
type ImportReport struct {
	Created int           `json:"estudiantes_creados"`
	Skipped int           `json:"estudiantes_omitidos"`
	Errored int           `json:"errores"`
	Details ImportDetails `json:"detalles"`
}

type ImportDetails struct {
	Created []string `json:"creados"`
	Skipped []string `json:"omitidos"`
	Errored []string `json:"errores"`
}
