package grading

import "sort"

// BreakdownEntry is one rubric's slice of the computed final grade:
// the per-rubric average and its weighted contribution in points.
type BreakdownEntry struct {
	Code         string  `json:"-"`
	Average      float64 `json:"promedio"`
	Contribution float64 `json:"aporte"`
}

// FinalGrade is the server-computed final score with its per-rubric
// breakdown. The client renders it; it never recomputes it.
type FinalGrade struct {
	Final     float64                   `json:"nota_final"`
	Breakdown map[string]BreakdownEntry `json:"desglose"`
}

// Visible returns the breakdown entries worth displaying: only rubrics
// whose weighted contribution is strictly greater than zero, in canonical
// rubric order. A display filter only; the underlying record is untouched.
func (fg FinalGrade) Visible() []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(fg.Breakdown))
	for code, entry := range fg.Breakdown {
		if entry.Contribution > 0 {
			entry.Code = code
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		ri, rj := rubricRank(entries[i].Code), rubricRank(entries[j].Code)
		if ri != rj {
			return ri < rj
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}

// rubricRank orders codes by displayOrder; unknown codes sort last, by code.
func rubricRank(code string) int {
	for i, c := range displayOrder {
		if c == code {
			return i
		}
	}
	return len(displayOrder)
}
