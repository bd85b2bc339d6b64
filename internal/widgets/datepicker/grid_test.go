package datepicker

import (
	"testing"
	"time"
)

// date is a test helper for building a normalized local date.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- Normalization Tests ---

func TestNormalize_StripsTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	noisy := time.Date(2024, time.March, 5, 13, 47, 21, 999, loc)
	n := Normalize(noisy)

	if n.Hour() != 0 || n.Minute() != 0 || n.Second() != 0 || n.Nanosecond() != 0 {
		t.Errorf("expected zeroed time-of-day, got %v", n)
	}
	if n.Year() != 2024 || n.Month() != time.March || n.Day() != 5 {
		t.Errorf("expected calendar date preserved, got %v", n)
	}
	// No timezone conversion.
	if n.Location() != loc {
		t.Errorf("expected location preserved, got %v", n.Location())
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	d := time.Date(2023, time.December, 31, 23, 59, 59, 0, time.Local)
	once := Normalize(d)
	twice := Normalize(once)
	if !once.Equal(twice) {
		t.Errorf("expected Normalize to be idempotent, got %v then %v", once, twice)
	}
}

func TestSameDay_Reflexive(t *testing.T) {
	for _, d := range []time.Time{
		time.Now(),
		date(2024, time.February, 29),
		time.Date(1999, time.January, 1, 8, 30, 0, 0, time.Local),
	} {
		if !SameDay(Normalize(d), Normalize(d)) {
			t.Errorf("expected SameDay(normalize(d), normalize(d)) for %v", d)
		}
	}
}

func TestSameDay_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 5, 22, 30, 0, 0, time.UTC)
	if !SameDay(morning, evening) {
		t.Error("expected same calendar day regardless of time-of-day")
	}
	if SameDay(morning, date(2024, time.March, 6)) {
		t.Error("expected different days to compare unequal")
	}
}

// --- Label Rotation Tests ---

func TestRotate_RoundTrip(t *testing.T) {
	for n := 0; n < Cols; n++ {
		rotated := Rotate(weekdayLabelsKo, n)
		restored := Rotate(rotated, Cols-n)
		if restored != weekdayLabelsKo {
			t.Errorf("rotate by %d then %d did not restore order: %v", n, Cols-n, restored)
		}
	}
}

func TestRotate_NormalizesOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		first  string
	}{
		{"sunday start", 0, "일"},
		{"monday start", 1, "월"},
		{"saturday start", 6, "토"},
		{"wraps past range", 8, "월"},
		{"negative offset", -1, "토"},
		{"large negative", -13, "월"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(weekdayLabelsKo, tt.offset)
			if got[0] != tt.first {
				t.Errorf("expected first label %q, got %q", tt.first, got[0])
			}
		})
	}
}

func TestWeekdayLabels_LocaleSelection(t *testing.T) {
	ko := WeekdayLabels("ko-KR", 0)
	if ko[0] != "일" {
		t.Errorf("expected Korean labels for ko-KR, got %v", ko)
	}
	en := WeekdayLabels("en-US", 1)
	if en[0] != "Mon" {
		t.Errorf("expected Monday-first English labels, got %v", en)
	}
	def := WeekdayLabels("", 0)
	if def[0] != "일" {
		t.Errorf("expected Korean default labels, got %v", def)
	}
}

func TestMonthTitle(t *testing.T) {
	key := MonthKey{Year: 2024, Month: time.March}
	if got := MonthTitle("ko", key); got != "2024년 3월" {
		t.Errorf("expected Korean title, got %q", got)
	}
	if got := MonthTitle("en", key); got != "March 2024" {
		t.Errorf("expected English title, got %q", got)
	}
}

// --- Month Matrix Tests ---

func TestMonthMatrix_AlwaysSixBySeven(t *testing.T) {
	// Sweep several years of months against every week start. The matrix
	// shape is fixed by type; verify the content invariants instead:
	// consecutive cells differ by exactly one day and the first cell's
	// weekday matches the configured week start.
	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			for ws := 0; ws < Cols; ws++ {
				matrix := MonthMatrix(date(year, month, 15), ws)

				first := matrix[0][0].Date
				if int(first.Weekday()) != ws {
					t.Fatalf("%d-%02d ws=%d: first cell weekday %d, want %d",
						year, month, ws, first.Weekday(), ws)
				}

				prev := first
				for r := 0; r < Rows; r++ {
					for c := 0; c < Cols; c++ {
						if r == 0 && c == 0 {
							continue
						}
						cell := matrix[r][c].Date
						if !SameDay(prev.AddDate(0, 0, 1), cell) {
							t.Fatalf("%d-%02d ws=%d: cell (%d,%d) is %v, expected day after %v",
								year, month, ws, r, c, cell, prev)
						}
						prev = cell
					}
				}
			}
		}
	}
}

func TestMonthMatrix_CoversWholeMonth(t *testing.T) {
	for _, ws := range []int{0, 1, 6} {
		matrix := MonthMatrix(date(2024, time.February, 1), ws)

		seen := make(map[int]bool)
		for r := 0; r < Rows; r++ {
			for c := 0; c < Cols; c++ {
				cell := matrix[r][c]
				if cell.InMonth {
					if cell.Date.Month() != time.February {
						t.Fatalf("ws=%d: cell flagged InMonth but in %v", ws, cell.Date.Month())
					}
					seen[cell.Date.Day()] = true
				}
			}
		}

		// 2024 is a leap year; February has 29 days.
		for day := 1; day <= 29; day++ {
			if !seen[day] {
				t.Errorf("ws=%d: missing Feb %d from matrix", ws, day)
			}
		}
		if len(seen) != 29 {
			t.Errorf("ws=%d: expected 29 in-month days, got %d", ws, len(seen))
		}
	}
}

func TestMonthMatrix_March2024SundayStart(t *testing.T) {
	// March 2024 has 31 days and starts on a Friday. With a Sunday week
	// start the grid must run Sun Feb 25 through Sat Apr 6.
	matrix := MonthMatrix(date(2024, time.March, 10), 0)

	wantFirst := date(2024, time.February, 25)
	if !SameDay(matrix[0][0].Date, wantFirst) {
		t.Errorf("expected first cell %v, got %v", wantFirst, matrix[0][0].Date)
	}
	if matrix[0][0].InMonth {
		t.Error("expected Feb 25 to be an outside day")
	}

	wantLast := date(2024, time.April, 6)
	last := matrix[Rows-1][Cols-1]
	if !SameDay(last.Date, wantLast) {
		t.Errorf("expected last cell %v, got %v", wantLast, last.Date)
	}
	if last.InMonth {
		t.Error("expected Apr 6 to be an outside day")
	}
}

func TestMonthMatrix_Deterministic(t *testing.T) {
	a := MonthMatrix(date(2025, time.June, 3), 1)
	b := MonthMatrix(date(2025, time.June, 28), 1)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if !a[r][c].Date.Equal(b[r][c].Date) || a[r][c].InMonth != b[r][c].InMonth {
				t.Fatalf("matrices differ at (%d,%d) for two refs in the same month", r, c)
			}
		}
	}
}

func TestMonthKey_PrevNextWrapYear(t *testing.T) {
	dec := MonthKey{Year: 2023, Month: time.December}
	if next := dec.Next(); next != (MonthKey{Year: 2024, Month: time.January}) {
		t.Errorf("expected December to wrap to January 2024, got %+v", next)
	}
	jan := MonthKey{Year: 2024, Month: time.January}
	if prev := jan.Prev(); prev != (MonthKey{Year: 2023, Month: time.December}) {
		t.Errorf("expected January to wrap to December 2023, got %+v", prev)
	}
}
