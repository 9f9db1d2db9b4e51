package grading

import (
	"errors"
	"fmt"
	"math"
)

// Role is the caller's role as encoded in the session token's `rol` claim.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleTeacher       Role = "profesor"
)

func (r Role) IsAdmin() bool { return r == RoleAdministrator }

// Decision is the outcome of an editability check. "Not editable" is an
// ordinary outcome, never an error; Reason carries the human-readable
// explanation to surface next to the disabled field.
type Decision struct {
	Editable bool
	Reason   string
}

const (
	ReasonNotThisWeek = "not available this week"
	ReasonAdminOnly   = "administrator only"
)

// ErrValueOutOfRange rejects a candidate grade value locally, before any
// network call. Deliberately distinct from any editability outcome.
var ErrValueOutOfRange = errors.New("grades must be between 0 and 100")

// rule is the gate attached to a rubric. The zero rule is fully
// unrestricted: any week, any role.
type rule struct {
	onlyWeek  Week   // editable in exactly this week, if set
	weeks     []Week // editable only in these weeks, if set
	adminOnly bool
}

// rules is the whole editability policy, expressed as data. Week gates
// come from the academic calendar (partial exams sit in weeks 5, 10 and
// 14; the compendium pauses on exam weeks); role gates keep exam-type
// rubrics out of teachers' hands.
var rules = map[string]rule{
	CodeParcialI:   {onlyWeek: 5, adminOnly: true},
	CodeParcialII:  {onlyWeek: 10, adminOnly: true},
	CodeParcialIII: {onlyWeek: 14, adminOnly: true},
	CodeCompendium: {weeks: []Week{2, 3, 4, 5, 7, 8, 9, 11, 12, 13}},
	CodeSimulacion: {adminOnly: true},
	CodeInfografia: {adminOnly: true},
}

// CanEdit decides whether the rubric's grade field may be edited in the
// given week by a caller with the given role. Week gates are evaluated
// strictly before role gates: a week-gated, role-restricted rubric
// reports the week reason on a week mismatch, and only falls through to
// the role check once the week matches.
func CanEdit(code string, week Week, role Role) Decision {
	r := rules[code]

	if r.onlyWeek != 0 && week != r.onlyWeek {
		return Decision{Reason: fmt.Sprintf("only available in week %d", r.onlyWeek)}
	}
	if r.weeks != nil && !containsWeek(r.weeks, week) {
		return Decision{Reason: ReasonNotThisWeek}
	}

	if role.IsAdmin() {
		return Decision{Editable: true}
	}
	if r.adminOnly {
		return Decision{Reason: ReasonAdminOnly}
	}
	return Decision{Editable: true}
}

// ValidateValue checks a candidate grade value against the closed range
// [0, 100]. NaN compares false against both bounds, so it is rejected
// explicitly. Applies independent of any editability decision.
func ValidateValue(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return ErrValueOutOfRange
	}
	return nil
}

func containsWeek(weeks []Week, week Week) bool {
	for _, w := range weeks {
		if w == week {
			return true
		}
	}
	return false
}
