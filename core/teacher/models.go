package teacher

import (
	"github.com/uia-acad/notas/core"
)

// Teacher is a teacher record as served by the API.
type Teacher struct {
	ID        int    `json:"Id_profesor"`
	FirstName string `json:"Nombre"`
	LastName  string `json:"Apellido"`
	Specialty string `json:"Especialidad,omitempty"`
	Email     string `json:"Email"`
}

func (t Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// NewTeacher contains information needed to create a new Teacher. No
// password field: the API generates the initial password itself.
type NewTeacher struct {
	FirstName string `json:"Nombre" validate:"required"`
	LastName  string `json:"Apellido" validate:"required"`
	Specialty string `json:"Especialidad,omitempty"`
	Email     string `json:"Email" validate:"required,email"`
}

func (nt *NewTeacher) Validate() error {
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Specialty = core.CleanString(nt.Specialty)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return core.Validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an
// existing Teacher. Empty fields keep their current value; a non-empty
// Password resets the teacher's password.
type UpdateTeacher struct {
	FirstName string `json:"Nombre"`
	LastName  string `json:"Apellido"`
	Specialty string `json:"Especialidad,omitempty"`
	Email     string `json:"Email" validate:"omitempty,email"`
	Password  string `json:"Password,omitempty" validate:"omitempty,min=6"`
}

func (ut *UpdateTeacher) Validate(orig Teacher) error {
	if name := core.CleanString(ut.FirstName); name != "" {
		ut.FirstName = name
	} else {
		ut.FirstName = orig.FirstName
	}
	if name := core.CleanString(ut.LastName); name != "" {
		ut.LastName = name
	} else {
		ut.LastName = orig.LastName
	}
	ut.Specialty = core.CleanString(ut.Specialty)
	if email := core.CleanString(ut.Email, true /* lower */); email != "" {
		ut.Email = email
	} else {
		ut.Email = orig.Email
	}
	return core.Validate.Struct(ut)
}

// ChangePassword is the self-service password change payload.
type ChangePassword struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=6"`
}

func (cp ChangePassword) Validate() error { return core.Validate.Struct(cp) }
