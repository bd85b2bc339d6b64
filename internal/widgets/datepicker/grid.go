// Package datepicker implements the month-grid date picker used on the
// reservation pages. The grid math is pure: given any date inside a month
// and a week-start convention it produces a fixed 6x7 matrix of days
// covering the whole month plus the leading/trailing days of the adjacent
// months. A fixed 42-cell matrix keeps the rendered widget the same height
// for every month, so the page never jumps while the user flips months.
//
// The widget itself (widget.go) owns only the displayed month; the selected
// date is owned by the caller and reported back through a callback.
package datepicker

import "time"

// Rows and Cols are the fixed dimensions of a month matrix. Six rows of
// seven days cover every month/week-start combination, including 31-day
// months that start on the last weekday of a row.
const (
	Rows = 6
	Cols = 7
)

// Cell is a single position in the month matrix.
type Cell struct {
	// Date is the normalized date at this grid position.
	Date time.Time

	// InMonth is true iff the cell belongs to the displayed month, as
	// opposed to a leading/trailing day from an adjacent month.
	InMonth bool
}

// Normalize strips the time-of-day from t, keeping the calendar date and
// location. All date comparisons in this package go through Normalize so
// that clock noise never makes two renders of the same day unequal.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MonthKey identifies a (year, month) pair. The widget state machine
// compares MonthKeys, never full dates, so picking a different day inside
// the visible month never counts as a month change.
type MonthKey struct {
	Year  int
	Month time.Month
}

// KeyOf returns the MonthKey of the month containing t.
func KeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// First returns the first day of the month in the given location.
func (k MonthKey) First(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, loc)
}

// Prev returns the key of the preceding month, wrapping the year.
func (k MonthKey) Prev() MonthKey {
	return KeyOf(time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))
}

// Next returns the key of the following month, wrapping the year.
func (k MonthKey) Next() MonthKey {
	return KeyOf(time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))
}

// normalizeWeekStart maps any integer offset into [0,6].
func normalizeWeekStart(weekStartsOn int) int {
	return ((weekStartsOn % Cols) + Cols) % Cols
}

// MonthMatrix builds the 6x7 grid for the month containing ref. The first
// row starts on the configured week-start day; cells before the first of
// the month and after its last day are filled from the adjacent months and
// flagged InMonth=false.
//
// The function is a pure function of (month of ref, weekStartsOn): no
// clock reads, same inputs always produce the same matrix.
func MonthMatrix(ref time.Time, weekStartsOn int) [Rows][Cols]Cell {
	ws := normalizeWeekStart(weekStartsOn)

	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	// Leading cells needed so the first row starts on the week-start day.
	offset := (int(first.Weekday()) - ws + Cols) % Cols
	cursor := first.AddDate(0, 0, -offset)

	var matrix [Rows][Cols]Cell
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			matrix[r][c] = Cell{
				Date:    cursor,
				InMonth: cursor.Month() == ref.Month() && cursor.Year() == ref.Year(),
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
	}
	return matrix
}
