package reservation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dosirak-app/dosirak/internal/apperror"
	"github.com/dosirak-app/dosirak/internal/middleware"
	"github.com/dosirak-app/dosirak/internal/plugins/auth"
	"github.com/dosirak-app/dosirak/internal/widgets/datepicker"
)

// Query/form date layouts.
const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// Handler handles HTTP requests for the reservations area. Handlers are
// thin: they bind the request, call the service, and render the response.
type Handler struct {
	service ReservationService
}

// NewHandler creates a new reservation handler with the given service.
func NewHandler(service ReservationService) *Handler {
	return &Handler{service: service}
}

// Page renders the reservations page (GET /reservations). Query params
// month (2006-01) and selected (2006-01-02) restore calendar state across
// full-page navigations.
func (h *Handler) Page(c echo.Context) error {
	data, err := h.buildPanel(c, "")
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, ReservationsPage(data))
}

// Panel re-renders the calendar panel fragment (GET /reservations/panel).
// Month navigation and date picks from the calendar widget land here via
// HTMX so only the panel swaps, not the whole page.
func (h *Handler) Panel(c echo.Context) error {
	data, err := h.buildPanel(c, "")
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, Panel(data))
}

// Create places a reservation (POST /reservations).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return h.rerenderPanel(c, "날짜를 선택해 주세요.")
	}

	input := CreateInput{
		Date:     date,
		Kind:     Kind(req.Kind),
		Quantity: req.Quantity,
		Memo:     req.Memo,
	}

	if _, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), input); err != nil {
		errMsg := "failed to create reservation"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		return h.rerenderPanel(c, errMsg)
	}

	if middleware.IsHTMX(c) {
		return h.rerenderPanel(c, "")
	}
	return c.Redirect(http.StatusSeeOther, reservationsURL(c))
}

// Cancel removes a reservation (POST /reservations/:id/cancel).
func (h *Handler) Cancel(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return apperror.NewBadRequest("missing reservation id")
	}

	if err := h.service.Cancel(c.Request().Context(), auth.GetUserID(c), id); err != nil {
		errMsg := "failed to cancel reservation"
		if appErr, ok := err.(*apperror.AppError); ok {
			errMsg = appErr.Message
		}
		return h.rerenderPanel(c, errMsg)
	}

	if middleware.IsHTMX(c) {
		return h.rerenderPanel(c, "")
	}
	return c.Redirect(http.StatusSeeOther, reservationsURL(c))
}

// --- panel assembly ---

// buildPanel assembles everything the calendar panel needs: the widget in
// the requested month, the selected date, and the month's reservations.
func (h *Handler) buildPanel(c echo.Context, errMsg string) (*PanelData, error) {
	selected := parseSelected(c)

	opts := h.service.WindowOptions(selected)
	widget := datepicker.NewWidget(opts, nil, time.Now())

	// An explicit month param (from prev/next navigation) overrides the
	// month derived from the selection.
	if month := c.QueryParam("month"); month != "" {
		if first, err := time.ParseInLocation(monthLayout, month, time.Local); err == nil {
			widget.SetDefaultMonth(&first)
		}
	}

	reservations, err := h.service.ListMonth(c.Request().Context(), auth.GetUserID(c), widget.Displayed())
	if err != nil {
		return nil, err
	}

	return &PanelData{
		CSRFToken:    middleware.GetCSRFToken(c),
		Widget:       widget,
		Selected:     selected,
		Reservations: reservations,
		ErrMsg:       errMsg,
	}, nil
}

// rerenderPanel re-renders the panel fragment, typically after a mutation
// or a validation failure.
func (h *Handler) rerenderPanel(c echo.Context, errMsg string) error {
	data, err := h.buildPanel(c, errMsg)
	if err != nil {
		return err
	}
	if middleware.IsHTMX(c) {
		return middleware.Render(c, http.StatusOK, Panel(data))
	}
	return middleware.Render(c, http.StatusOK, ReservationsPage(data))
}

// parseSelected reads the selected date from query or form params.
func parseSelected(c echo.Context) *time.Time {
	raw := c.QueryParam("selected")
	if raw == "" {
		raw = c.FormValue("date")
	}
	if raw == "" {
		return nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil
	}
	return &d
}

// reservationsURL rebuilds the page URL preserving calendar state.
func reservationsURL(c echo.Context) string {
	url := "/reservations"
	if month := c.QueryParam("month"); month != "" {
		url += "?month=" + month
	}
	return url
}

// panelURL builds the fragment URL for a month/selection combination.
// Used by the view to wire the widget's navigation and pick targets.
func panelURL(month datepicker.MonthKey, selected *time.Time) string {
	url := fmt.Sprintf("/reservations/panel?month=%04d-%02d", month.Year, int(month.Month))
	if selected != nil {
		url += "&selected=" + selected.Format(dateLayout)
	}
	return url
}

// pickURL builds the fragment URL for picking a date.
func pickURL(month datepicker.MonthKey, d time.Time) string {
	return fmt.Sprintf("/reservations/panel?month=%04d-%02d&selected=%s",
		month.Year, int(month.Month), d.Format(dateLayout))
}
