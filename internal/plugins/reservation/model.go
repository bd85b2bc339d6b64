// Package reservation implements lunch and packaging reservations: each
// user may hold one reservation per date per kind inside a rolling ordering
// window. Dates are picked through the calendar widget; weekends and dates
// outside the window are not selectable.
package reservation

import "time"

// Kind distinguishes the two reservation types.
type Kind string

const (
	// KindLunch is an on-site lunch reservation (점심).
	KindLunch Kind = "lunch"

	// KindPackaging is a takeaway box reservation (포장).
	KindPackaging Kind = "packaging"
)

// Valid reports whether k is a known reservation kind.
func (k Kind) Valid() bool {
	return k == KindLunch || k == KindPackaging
}

// Label returns the Korean display label for the kind.
func (k Kind) Label() string {
	switch k {
	case KindLunch:
		return "점심"
	case KindPackaging:
		return "포장"
	default:
		return string(k)
	}
}

// Reservation represents one reserved lunch or packaging box.
type Reservation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Kind      Kind      `json:"kind"`
	Quantity  int       `json:"quantity"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// CreateRequest holds the data submitted by the reservation form.
type CreateRequest struct {
	Date     string `form:"date"`
	Kind     string `form:"kind"`
	Quantity int    `form:"quantity"`
	Memo     string `form:"memo"`
}

// --- Service Input DTOs ---

// CreateInput is the validated input for placing a reservation.
type CreateInput struct {
	Date     time.Time
	Kind     Kind
	Quantity int
	Memo     string
}
