package grading

import (
	"reflect"
	"testing"
)

func TestFinalGradeVisible(t *testing.T) {
	fg := FinalGrade{
		Final: 12.5,
		Breakdown: map[string]BreakdownEntry{
			CodeAsistencia: {Average: 80, Contribution: 0},
			CodeQuices:     {Average: 62.5, Contribution: 12.5},
			CodeParcialI:   {Average: 0, Contribution: 0},
		},
	}

	visible := fg.Visible()
	if len(visible) != 1 {
		t.Fatalf("len(Visible()) = %d, want 1", len(visible))
	}
	if visible[0].Code != CodeQuices {
		t.Errorf("Visible()[0].Code = %q, want %q", visible[0].Code, CodeQuices)
	}
	if visible[0].Contribution != 12.5 {
		t.Errorf("Visible()[0].Contribution = %v, want 12.5", visible[0].Contribution)
	}

	// the underlying record is unaffected
	if len(fg.Breakdown) != 3 {
		t.Errorf("len(Breakdown) = %d, want 3", len(fg.Breakdown))
	}
}

func TestFinalGradeVisible_canonicalOrder(t *testing.T) {
	fg := FinalGrade{
		Breakdown: map[string]BreakdownEntry{
			CodeParcialI:   {Contribution: 5},
			CodeAsistencia: {Contribution: 1},
			CodeCompendium: {Contribution: 3},
			CodeTc:         {Contribution: 2},
		},
	}

	var codes []string
	for _, entry := range fg.Visible() {
		codes = append(codes, entry.Code)
	}
	want := []string{CodeAsistencia, CodeTc, CodeCompendium, CodeParcialI}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("Visible() order = %v, want %v", codes, want)
	}
}

func TestFinalGradeVisible_empty(t *testing.T) {
	if visible := (FinalGrade{}).Visible(); len(visible) != 0 {
		t.Errorf("Visible() on empty breakdown = %v, want empty", visible)
	}
}

func TestWeeks(t *testing.T) {
	weeks := Weeks()
	if len(weeks) != 13 {
		t.Fatalf("len(Weeks()) = %d, want 13", len(weeks))
	}
	if weeks[0] != FirstWeek || weeks[len(weeks)-1] != LastWeek {
		t.Errorf("Weeks() spans [%d, %d], want [2, 14]", weeks[0], weeks[len(weeks)-1])
	}
	for _, w := range weeks {
		if !w.Valid() {
			t.Errorf("Week(%d).Valid() = false, want true", w)
		}
	}
	for _, w := range []Week{0, 1, 15, -3} {
		if w.Valid() {
			t.Errorf("Week(%d).Valid() = true, want false", w)
		}
	}
}

func TestFieldForCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeAsistencia, "Asistencia"},
		{CodeParcialI, "Parcial_i"},
		{CodeParcialIII, "Parcial_iii"},
		{CodeCc, "Cc"},
		{"proyecto", "proyecto"}, // unknown codes pass through
	}
	for _, tt := range tests {
		if got := FieldForCode(tt.code); got != tt.want {
			t.Errorf("FieldForCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeForField(t *testing.T) {
	for code, field := range fieldByCode {
		if got := CodeForField(field); got != code {
			t.Errorf("CodeForField(%q) = %q, want %q", field, got, code)
		}
	}
	if got := CodeForField("Nope"); got != "Nope" {
		t.Errorf("CodeForField(unknown) = %q, want pass-through", got)
	}
}

func TestFields(t *testing.T) {
	fields := Fields()
	if len(fields) != len(fieldByCode) {
		t.Fatalf("Fields() returned %d fields, want %d", len(fields), len(fieldByCode))
	}
	if fields[0] != "Asistencia" || fields[len(fields)-1] != "Infografia" {
		t.Errorf("Fields() not in display order: %v", fields)
	}
}

func TestRecordValueRoundTrip(t *testing.T) {
	var rec Record
	for code, field := range fieldByCode {
		rec.SetValue(field, 42)
		if got := rec.Value(field); got != 42 {
			t.Errorf("Value(%q) = %v after SetValue, want 42 (code %s)", field, got, code)
		}
	}
	if rec.Value("Nope") != 0 {
		t.Error("Value of unknown field should be 0")
	}
}
