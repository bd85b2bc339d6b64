package datepicker

import "time"

// Options configures a date picker instance. All fields are caller-owned;
// the widget never mutates them. Selection is controlled (the widget only
// reports picks through the OnSelect callback), while the displayed month
// is uncontrolled widget state.
type Options struct {
	// Selected is the caller-owned selected date, or nil for none.
	Selected *time.Time

	// DefaultMonth hints which month to display when nothing is selected.
	DefaultMonth *time.Time

	// WeekStartsOn selects the first column of the grid (0 = Sunday).
	// Out-of-range values are normalized modulo 7.
	WeekStartsOn int

	// HideOutsideDays renders the leading/trailing cells from the adjacent
	// months as empty placeholders instead of pickable days. The zero value
	// shows them.
	HideOutsideDays bool

	// MinDate and MaxDate are inclusive selectable bounds, or nil for none.
	MinDate *time.Time
	MaxDate *time.Time

	// Disabled is an arbitrary caller predicate over a normalized date.
	Disabled func(time.Time) bool

	// Locale controls only the header label text (month title, weekday
	// abbreviations). Defaults to Korean.
	Locale string
}

// IsDisabled reports whether a date may not be selected: outside the
// inclusive MinDate/MaxDate bounds or rejected by the Disabled predicate.
// All comparisons are over normalized dates.
func (o Options) IsDisabled(d time.Time) bool {
	n := Normalize(d)
	if o.MinDate != nil && n.Before(Normalize(*o.MinDate)) {
		return true
	}
	if o.MaxDate != nil && n.After(Normalize(*o.MaxDate)) {
		return true
	}
	if o.Disabled != nil && o.Disabled(n) {
		return true
	}
	return false
}

// Widget is the date picker state machine. Its only mutable state is the
// displayed month; navigation moves it by whole months and external prop
// changes snap it to a new month only when the (year, month) identity of
// the prop actually changed since it was last seen.
type Widget struct {
	opts     Options
	onSelect func(time.Time)

	displayed MonthKey

	// Last-seen identities of the external props, tracked independently so
	// that re-delivering the same month never causes a visual jump.
	lastSelected *MonthKey
	lastDefault  *MonthKey
}

// NewWidget creates a widget from the given options. The initial displayed
// month is the selected date's month if present, else the default-month
// hint, else the month containing now.
func NewWidget(opts Options, onSelect func(time.Time), now time.Time) *Widget {
	w := &Widget{opts: opts, onSelect: onSelect}

	switch {
	case opts.Selected != nil:
		w.displayed = KeyOf(*opts.Selected)
	case opts.DefaultMonth != nil:
		w.displayed = KeyOf(*opts.DefaultMonth)
	default:
		w.displayed = KeyOf(now)
	}

	if opts.Selected != nil {
		k := KeyOf(*opts.Selected)
		w.lastSelected = &k
	}
	if opts.DefaultMonth != nil {
		k := KeyOf(*opts.DefaultMonth)
		w.lastDefault = &k
	}
	return w
}

// Options returns the widget's current options.
func (w *Widget) Options() Options {
	return w.opts
}

// Displayed returns the currently displayed month.
func (w *Widget) Displayed() MonthKey {
	return w.displayed
}

// Prev moves the displayed month back exactly one month, wrapping the year
// (January -> December of the previous year).
func (w *Widget) Prev() {
	w.displayed = w.displayed.Prev()
}

// Next moves the displayed month forward exactly one month, wrapping the
// year (December -> January of the next year).
func (w *Widget) Next() {
	w.displayed = w.displayed.Next()
}

// SetSelected reconciles an external change to the selected-date prop.
// The displayed month snaps to the new date's month iff its (year, month)
// key differs from the key last seen for this prop; picking a different
// day within the same month is not a transition.
func (w *Widget) SetSelected(d *time.Time) {
	w.opts.Selected = d
	if d == nil {
		w.lastSelected = nil
		return
	}
	k := KeyOf(*d)
	if w.lastSelected == nil || *w.lastSelected != k {
		w.displayed = k
		w.lastSelected = &k
	}
}

// SetDefaultMonth reconciles an external change to the default-month hint,
// evaluated independently of the selected date.
func (w *Widget) SetDefaultMonth(d *time.Time) {
	w.opts.DefaultMonth = d
	if d == nil {
		w.lastDefault = nil
		return
	}
	k := KeyOf(*d)
	if w.lastDefault == nil || *w.lastDefault != k {
		w.displayed = k
		w.lastDefault = &k
	}
}

// Select reports a pick of the given date through the OnSelect callback.
// Disabled dates are a no-op: the callback is not invoked. The widget
// never updates its own selection; the caller owns it.
func (w *Widget) Select(d time.Time) {
	if w.opts.IsDisabled(d) {
		return
	}
	if w.onSelect != nil {
		w.onSelect(Normalize(d))
	}
}

// Matrix returns the 6x7 grid for the displayed month.
func (w *Widget) Matrix() [Rows][Cols]Cell {
	loc := time.Local
	if w.opts.Selected != nil {
		loc = w.opts.Selected.Location()
	} else if w.opts.DefaultMonth != nil {
		loc = w.opts.DefaultMonth.Location()
	}
	return MonthMatrix(w.displayed.First(loc), w.opts.WeekStartsOn)
}

// Title returns the locale-formatted month/year header.
func (w *Widget) Title() string {
	return MonthTitle(w.opts.Locale, w.displayed)
}

// Labels returns the locale-formatted, rotated weekday column headers.
func (w *Widget) Labels() [Cols]string {
	return WeekdayLabels(w.opts.Locale, w.opts.WeekStartsOn)
}
