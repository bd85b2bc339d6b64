package reservation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dosirak-app/dosirak/internal/templates/components"
	"github.com/dosirak-app/dosirak/internal/templates/layouts"
	"github.com/dosirak-app/dosirak/internal/widgets/datepicker"
)

// panelElementID is the swap target for all calendar panel fragments.
const panelElementID = "reservation-panel"

// panelIndicator is the hx-indicator selector for the panel's spinner,
// shared by month navigation, picks, and mutations.
const panelIndicator = "#" + panelElementID + " .spinner"

// PanelData carries everything the calendar panel renders.
type PanelData struct {
	CSRFToken    string
	Widget       *datepicker.Widget
	Selected     *time.Time
	Reservations []Reservation
	ErrMsg       string
}

// ReservationsPage renders the full reservations page.
func ReservationsPage(data *PanelData) templ.Component {
	return layouts.Base("예약", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<section class="reservations"><h1>도시락 예약</h1>`)
		if err := Panel(data).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `</section>`)
		return err
	}))
}

// Panel renders the calendar, the order form for the selected date, and the
// month's reservations. The whole panel is one HTMX swap target so month
// navigation, picks, and mutations all replace it atomically.
func Panel(data *PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		fmt.Fprintf(out, `<div id="%s" class="reservation-panel">`, panelElementID)

		if err := components.Spinner().Render(ctx, out); err != nil {
			return err
		}

		if data.ErrMsg != "" {
			fmt.Fprintf(out, `<div class="form-error" role="alert">%s</div>`, templ.EscapeString(data.ErrMsg))
		}

		calendar := datepicker.View(data.Widget, datepicker.ViewConfig{
			NavURL:         func(k datepicker.MonthKey) string { return panelURL(k, data.Selected) },
			PickURL:        func(d time.Time) string { return pickURL(data.Widget.Displayed(), d) },
			TargetSelector: "#" + panelElementID,
			ElementID:      "reservation-calendar",
			Indicator:      panelIndicator,
		})
		if err := calendar.Render(ctx, out); err != nil {
			return err
		}

		if err := orderForm(data).Render(ctx, out); err != nil {
			return err
		}
		if err := monthList(data).Render(ctx, out); err != nil {
			return err
		}

		_, err := io.WriteString(out, `</div>`)
		return err
	})
}

// orderForm renders the create form for the selected date, or a hint to
// pick a date first.
func orderForm(data *PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if data.Selected == nil {
			_, err := io.WriteString(out, `<p class="pick-hint">주문할 날짜를 선택해 주세요.</p>`)
			return err
		}

		month := data.Widget.Displayed()
		fmt.Fprintf(out,
			`<form class="order-form" method="post" action="/reservations" `+
				`hx-post="%s" hx-target="#%s" hx-swap="outerHTML" hx-indicator="%s">`,
			templ.EscapeString(fmt.Sprintf("/reservations?month=%04d-%02d", month.Year, int(month.Month))),
			panelElementID,
			templ.EscapeString(panelIndicator),
		)
		fmt.Fprintf(out, `<input type="hidden" name="csrf_token" value="%s">`, templ.EscapeString(data.CSRFToken))
		fmt.Fprintf(out, `<input type="hidden" name="date" value="%s">`, data.Selected.Format(dateLayout))

		fmt.Fprintf(out, `<p class="order-date">%s</p>`, data.Selected.Format("2006년 1월 2일"))

		io.WriteString(out,
			`<label>종류<select name="kind">`+
				`<option value="lunch">점심</option>`+
				`<option value="packaging">포장</option>`+
				`</select></label>`+
				`<label>수량<input type="number" name="quantity" value="1" min="1"></label>`+
				`<label>메모<input type="text" name="memo" maxlength="500" placeholder="알레르기 등 요청사항"></label>`)

		if err := components.Button("예약하기", "submit").Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `</form>`)
		return err
	})
}

// monthList renders the displayed month's reservations with cancel buttons.
func monthList(data *PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		io.WriteString(out, `<div class="month-list"><h2>이번 달 예약</h2>`)

		if len(data.Reservations) == 0 {
			io.WriteString(out, `<p class="empty">예약이 없습니다.</p>`)
		} else {
			io.WriteString(out, `<ul>`)
			month := data.Widget.Displayed()
			for _, res := range data.Reservations {
				fmt.Fprintf(out,
					`<li><span class="res-date">%s</span> <span class="res-kind">%s</span> ×%d`,
					res.Date.Format("1월 2일"),
					templ.EscapeString(res.Kind.Label()),
					res.Quantity,
				)
				if res.Memo != "" {
					fmt.Fprintf(out, ` <span class="res-memo">%s</span>`, templ.EscapeString(res.Memo))
				}
				fmt.Fprintf(out,
					`<form method="post" action="/reservations/%s/cancel" `+
						`hx-post="%s" hx-target="#%s" hx-swap="outerHTML" hx-indicator="%s" class="cancel-form">`+
						`<input type="hidden" name="csrf_token" value="%s">`+
						`<button type="submit" aria-label="예약 취소">취소</button></form></li>`,
					templ.EscapeString(res.ID),
					templ.EscapeString(fmt.Sprintf("/reservations/%s/cancel?month=%04d-%02d",
						res.ID, month.Year, int(month.Month))),
					panelElementID,
					templ.EscapeString(panelIndicator),
					templ.EscapeString(data.CSRFToken),
				)
			}
			io.WriteString(out, `</ul>`)
		}

		_, err := io.WriteString(out, `</div>`)
		return err
	})
}
