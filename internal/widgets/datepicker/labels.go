package datepicker

import "fmt"

// DefaultLocale is the locale used for header labels when none is given.
// Dosirak is a Korean lunch service, so Korean is the default.
const DefaultLocale = "ko"

// weekdayLabelsKo are the canonical short weekday labels, Sunday first.
var weekdayLabelsKo = [Cols]string{"일", "월", "화", "수", "목", "금", "토"}

// weekdayLabelsEn are the English fallback labels, Sunday first.
var weekdayLabelsEn = [Cols]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabels returns the 7 weekday column headers for a locale, rotated
// so the configured week-start day comes first. Only the language prefix of
// the locale is inspected ("ko", "ko-KR", ...); anything else falls back to
// English.
func WeekdayLabels(locale string, weekStartsOn int) [Cols]string {
	canonical := weekdayLabelsEn
	if isKorean(locale) {
		canonical = weekdayLabelsKo
	}
	return Rotate(canonical, weekStartsOn)
}

// Rotate returns labels rotated left so index weekStartsOn becomes the
// first element. Offsets outside [0,6], including negatives, are normalized
// modulo 7.
func Rotate(labels [Cols]string, weekStartsOn int) [Cols]string {
	ws := normalizeWeekStart(weekStartsOn)

	var rotated [Cols]string
	for i := 0; i < Cols; i++ {
		rotated[i] = labels[(ws+i)%Cols]
	}
	return rotated
}

// MonthTitle formats the month/year header for a locale, e.g. "2024년 3월"
// for Korean and "March 2024" otherwise.
func MonthTitle(locale string, key MonthKey) string {
	if isKorean(locale) {
		return fmt.Sprintf("%d년 %d월", key.Year, int(key.Month))
	}
	return fmt.Sprintf("%s %d", key.Month.String(), key.Year)
}

// isKorean reports whether the locale identifier names a Korean locale.
func isKorean(locale string) bool {
	if locale == "" {
		locale = DefaultLocale
	}
	return len(locale) >= 2 && locale[0] == 'k' && locale[1] == 'o'
}
