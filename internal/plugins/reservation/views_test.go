package reservation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dosirak-app/dosirak/internal/widgets/datepicker"
)

func renderPanel(t *testing.T, data *PanelData) string {
	t.Helper()
	var sb strings.Builder
	if err := Panel(data).Render(context.Background(), &sb); err != nil {
		t.Fatalf("rendering panel: %v", err)
	}
	return sb.String()
}

func testPanelData(selected *time.Time) *PanelData {
	svc := newTestService(&mockRepo{})
	opts := svc.WindowOptions(selected)
	return &PanelData{
		CSRFToken: "test-token",
		Widget:    datepicker.NewWidget(opts, nil, monday),
		Selected:  selected,
	}
}

func TestPanel_SpinnerIndicator(t *testing.T) {
	html := renderPanel(t, testPanelData(nil))

	if !strings.Contains(html, `class="spinner htmx-indicator"`) {
		t.Error("expected the panel to render its spinner")
	}
	if !strings.Contains(html, `hx-indicator="#reservation-panel .spinner"`) {
		t.Error("expected month navigation to point hx-indicator at the spinner")
	}
}

func TestPanel_FormsShareIndicator(t *testing.T) {
	selected := monday.AddDate(0, 0, 1)
	data := testPanelData(&selected)
	data.Reservations = []Reservation{{
		ID:       "res-1",
		Date:     selected,
		Kind:     KindLunch,
		Quantity: 2,
	}}

	html := renderPanel(t, data)

	// Attribute order inside each form tag is fixed, so full opening tags
	// identify the two forms unambiguously.
	if !strings.Contains(html,
		`<form class="order-form" method="post" action="/reservations" `+
			`hx-post="/reservations?month=2026-03" hx-target="#reservation-panel" `+
			`hx-swap="outerHTML" hx-indicator="#reservation-panel .spinner">`) {
		t.Error("expected the order form to carry the panel indicator")
	}
	if !strings.Contains(html, `hx-indicator="#reservation-panel .spinner" class="cancel-form">`) {
		t.Error("expected the cancel form to carry the panel indicator")
	}
}
