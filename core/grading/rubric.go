package grading

// Rubric codes are stable identifiers from the API contract; they never
// change even when display names do.
const (
	CodeAsistencia = "asistencia"
	CodeTc         = "tc"
	CodeQuices     = "quices"
	CodeCompendium = "compendium"
	CodeCc         = "cc"
	CodeParcialI   = "parcial_i"
	CodeParcialII  = "parcial_ii"
	CodeParcialIII = "parcial_iii"
	CodeSimulacion = "simulacion"
	CodeInfografia = "infografia"
)

// displayOrder is the canonical on-screen ordering of rubrics.
var displayOrder = []string{
	CodeAsistencia,
	CodeTc,
	CodeQuices,
	CodeCompendium,
	CodeCc,
	CodeParcialI,
	CodeParcialII,
	CodeParcialIII,
	CodeSimulacion,
	CodeInfografia,
}

// Rubric is a named, weighted grading component contributing to the final
// score. Supplied by the API per week.
type Rubric struct {
	ID     int     `json:"Id_rubro"`
	Code   string  `json:"Codigo"`
	Name   string  `json:"Nombre"`
	Weight float64 `json:"Porcentaje"`
	Active bool    `json:"Activo"`
}

// WeeklyRubrics lists the rubrics active in a given week.
type WeeklyRubrics struct {
	Week    Week     `json:"Semana"`
	Rubrics []Rubric `json:"Rubros"`
}

// fieldByCode maps a rubric code to its grade-record field name on the wire.
var fieldByCode = map[string]string{
	CodeAsistencia: "Asistencia",
	CodeTc:         "Tc",
	CodeQuices:     "Quices",
	CodeCompendium: "Compendium",
	CodeCc:         "Cc",
	CodeParcialI:   "Parcial_i",
	CodeParcialII:  "Parcial_ii",
	CodeParcialIII: "Parcial_iii",
	CodeSimulacion: "Simulacion",
	CodeInfografia: "Infografia",
}

// FieldForCode returns the grade-record field name for a rubric code.
// Unknown codes map to themselves so new server-side rubrics degrade
// gracefully instead of breaking updates.
func FieldForCode(code string) string {
	if field, ok := fieldByCode[code]; ok {
		return field
	}
	return code
}

// CodeForField is the inverse of FieldForCode; unknown fields map to
// themselves.
func CodeForField(field string) string {
	for code, f := range fieldByCode {
		if f == field {
			return code
		}
	}
	return field
}

// Fields lists the grade-record field names in display order.
func Fields() []string {
	fields := make([]string, 0, len(displayOrder))
	for _, code := range displayOrder {
		fields = append(fields, fieldByCode[code])
	}
	return fields
}
