package grading

// Week is an academic week number. The term runs over the closed range
// [FirstWeek, LastWeek]; grade records exist for each week in that range.
type Week int

const (
	FirstWeek Week = 2
	LastWeek  Week = 14
)

func (w Week) Valid() bool {
	return FirstWeek <= w && w <= LastWeek
}

// Weeks returns every week of the term in order.
func Weeks() []Week {
	weeks := make([]Week, 0, LastWeek-FirstWeek+1)
	for w := FirstWeek; w <= LastWeek; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}
