package datepicker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// ViewConfig tells the View component how to wire grid interactions back to
// the host page. The widget itself knows nothing about URLs; the host plugin
// (reservations) supplies them.
type ViewConfig struct {
	// NavURL builds the HTMX fragment URL that re-renders the grid for a
	// different month (prev/next navigation).
	NavURL func(MonthKey) string

	// PickURL builds the HTMX URL requested when an enabled day is picked.
	PickURL func(time.Time) string

	// TargetSelector is the hx-target for both navigation and picks,
	// usually "#" + the id of the element rendered by View.
	TargetSelector string

	// ElementID is the id of the root element rendered by View.
	ElementID string

	// Indicator is an optional hx-indicator selector applied to navigation
	// and pick requests. Empty means no indicator.
	Indicator string
}

// View renders the date picker grid as a templ component. Cells outside
// the displayed month render as pickable days unless HideOutsideDays is
// set, in which case they render as empty placeholders. Disabled days
// render as inert buttons so the layout stays stable.
func View(w *Widget, cfg ViewConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		opts := w.Options()
		matrix := w.Matrix()
		labels := w.Labels()

		fmt.Fprintf(out, `<div id="%s" class="datepicker">`, templ.EscapeString(cfg.ElementID))

		// Header: prev / title / next.
		fmt.Fprintf(out,
			`<div class="datepicker-header">`+
				`<button type="button" class="datepicker-nav" aria-label="이전 달" hx-get="%s" hx-target="%s" hx-swap="outerHTML"%s>&lsaquo;</button>`+
				`<span class="datepicker-title">%s</span>`+
				`<button type="button" class="datepicker-nav" aria-label="다음 달" hx-get="%s" hx-target="%s" hx-swap="outerHTML"%s>&rsaquo;</button>`+
				`</div>`,
			templ.EscapeString(cfg.NavURL(w.Displayed().Prev())),
			templ.EscapeString(cfg.TargetSelector),
			indicatorAttr(cfg),
			templ.EscapeString(w.Title()),
			templ.EscapeString(cfg.NavURL(w.Displayed().Next())),
			templ.EscapeString(cfg.TargetSelector),
			indicatorAttr(cfg),
		)

		// Weekday column headers.
		io.WriteString(out, `<div class="datepicker-weekdays">`)
		for _, label := range labels {
			fmt.Fprintf(out, `<span class="datepicker-weekday">%s</span>`, templ.EscapeString(label))
		}
		io.WriteString(out, `</div>`)

		// 6x7 day grid.
		io.WriteString(out, `<div class="datepicker-grid">`)
		for r := 0; r < Rows; r++ {
			for c := 0; c < Cols; c++ {
				if err := writeCell(out, matrix[r][c], opts, cfg); err != nil {
					return err
				}
			}
		}
		io.WriteString(out, `</div>`)

		_, err := io.WriteString(out, `</div>`)
		return err
	})
}

// writeCell renders a single grid cell.
func writeCell(out io.Writer, cell Cell, opts Options, cfg ViewConfig) error {
	if !cell.InMonth && opts.HideOutsideDays {
		_, err := io.WriteString(out, `<span class="datepicker-day placeholder"></span>`)
		return err
	}

	classes := "datepicker-day"
	if !cell.InMonth {
		classes += " outside"
	}
	if opts.Selected != nil && SameDay(cell.Date, *opts.Selected) {
		classes += " selected"
	}

	if opts.IsDisabled(cell.Date) {
		_, err := fmt.Fprintf(out,
			`<button type="button" class="%s" disabled>%d</button>`,
			classes+" disabled", cell.Date.Day(),
		)
		return err
	}

	_, err := fmt.Fprintf(out,
		`<button type="button" class="%s" hx-get="%s" hx-target="%s" hx-swap="outerHTML"%s>%d</button>`,
		classes,
		templ.EscapeString(cfg.PickURL(cell.Date)),
		templ.EscapeString(cfg.TargetSelector),
		indicatorAttr(cfg),
		cell.Date.Day(),
	)
	return err
}

// indicatorAttr returns the hx-indicator attribute, or "" when unset.
func indicatorAttr(cfg ViewConfig) string {
	if cfg.Indicator == "" {
		return ""
	}
	return fmt.Sprintf(` hx-indicator="%s"`, templ.EscapeString(cfg.Indicator))
}
