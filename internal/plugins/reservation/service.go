package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dosirak-app/dosirak/internal/apperror"
	"github.com/dosirak-app/dosirak/internal/config"
	"github.com/dosirak-app/dosirak/internal/sanitize"
	"github.com/dosirak-app/dosirak/internal/widgets/datepicker"
)

// maxMemoLength caps the sanitized memo length.
const maxMemoLength = 500

// ReservationService handles business logic for reservations. Handlers call
// these methods -- they never touch the repository directly.
type ReservationService interface {
	// WindowOptions returns the date picker options for the current
	// ordering window: today through today+WindowDays, weekends disabled.
	WindowOptions(selected *time.Time) datepicker.Options

	Create(ctx context.Context, userID string, input CreateInput) (*Reservation, error)
	ListMonth(ctx context.Context, userID string, month datepicker.MonthKey) ([]Reservation, error)
	Cancel(ctx context.Context, userID, id string) error
}

// reservationService implements ReservationService.
type reservationService struct {
	repo ReservationRepository
	cfg  config.ReservationConfig

	// now is stubbed in tests to pin the ordering window.
	now func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(repo ReservationRepository, cfg config.ReservationConfig) ReservationService {
	return &reservationService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// isWeekend is the disabled-date predicate for the ordering window: the
// kitchen doesn't operate on Saturdays and Sundays.
func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WindowOptions builds the date picker options for the ordering window.
// Bounds are inclusive: today itself is orderable, as is the final day of
// the window.
func (s *reservationService) WindowOptions(selected *time.Time) datepicker.Options {
	today := datepicker.Normalize(s.now())
	max := today.AddDate(0, 0, s.cfg.WindowDays)

	return datepicker.Options{
		Selected:        selected,
		WeekStartsOn:    0, // Sunday-first, Korean convention.
		HideOutsideDays: true,
		MinDate:         &today,
		MaxDate:         &max,
		Disabled:        isWeekend,
		Locale:          datepicker.DefaultLocale,
	}
}

// Create places a reservation after validating the kind, quantity, and that
// the date is orderable. Duplicate user/date/kind combinations are rejected
// with a conflict.
func (s *reservationService) Create(ctx context.Context, userID string, input CreateInput) (*Reservation, error) {
	if !input.Kind.Valid() {
		return nil, apperror.NewValidation("unknown reservation kind")
	}
	if input.Quantity < 1 {
		return nil, apperror.NewValidation("quantity must be at least 1")
	}
	if input.Quantity > s.cfg.MaxQuantity {
		return nil, apperror.NewValidation(
			fmt.Sprintf("quantity must be at most %d", s.cfg.MaxQuantity))
	}

	date := datepicker.Normalize(input.Date)
	if s.WindowOptions(nil).IsDisabled(date) {
		return nil, apperror.NewValidation("this date is not available for ordering")
	}

	memo := sanitize.Memo(input.Memo)
	if len(memo) > maxMemoLength {
		return nil, apperror.NewValidation("memo is too long")
	}

	exists, err := s.repo.ExistsForDate(ctx, userID, date, input.Kind)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking existing reservation: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("you already have a reservation of this kind on this date")
	}

	res := &Reservation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Kind:      input.Kind,
		Quantity:  input.Quantity,
		Memo:      memo,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating reservation: %w", err))
	}

	slog.Info("reservation created",
		slog.String("reservation_id", res.ID),
		slog.String("user_id", userID),
		slog.String("kind", string(res.Kind)),
		slog.String("date", date.Format("2006-01-02")),
	)

	return res, nil
}

// ListMonth returns the user's reservations for the given calendar month.
func (s *reservationService) ListMonth(ctx context.Context, userID string, month datepicker.MonthKey) ([]Reservation, error) {
	from := month.First(time.Local)
	to := from.AddDate(0, 1, -1)

	reservations, err := s.repo.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing month reservations: %w", err))
	}

	return reservations, nil
}

// Cancel removes one of the user's reservations. Past dates can't be
// cancelled; the box is already on its way.
func (s *reservationService) Cancel(ctx context.Context, userID, id string) error {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("finding reservation: %w", err))
	}
	if res.UserID != userID {
		// Don't reveal that the reservation exists at all.
		return apperror.NewNotFound("reservation not found")
	}

	today := datepicker.Normalize(s.now())
	if datepicker.Normalize(res.Date).Before(today) {
		return apperror.NewValidation("past reservations cannot be cancelled")
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("deleting reservation: %w", err))
	}

	slog.Info("reservation cancelled",
		slog.String("reservation_id", id),
		slog.String("user_id", userID),
	)

	return nil
}
