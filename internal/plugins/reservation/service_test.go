package reservation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dosirak-app/dosirak/internal/apperror"
	"github.com/dosirak-app/dosirak/internal/config"
	"github.com/dosirak-app/dosirak/internal/widgets/datepicker"
)

// mockRepo implements ReservationRepository with function fields so each
// test overrides only the calls it cares about.
type mockRepo struct {
	createFn          func(ctx context.Context, r *Reservation) error
	findByIDFn        func(ctx context.Context, id string) (*Reservation, error)
	listByUserRangeFn func(ctx context.Context, userID string, from, to time.Time) ([]Reservation, error)
	existsForDateFn   func(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error)
	deleteFn          func(ctx context.Context, id, userID string) error

	created []*Reservation
}

func (m *mockRepo) Create(ctx context.Context, r *Reservation) error {
	m.created = append(m.created, r)
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*Reservation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("reservation not found")
}

func (m *mockRepo) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Reservation, error) {
	if m.listByUserRangeFn != nil {
		return m.listByUserRangeFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockRepo) ExistsForDate(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error) {
	if m.existsForDateFn != nil {
		return m.existsForDateFn(ctx, userID, date, kind)
	}
	return false, nil
}

func (m *mockRepo) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

// monday is a fixed "today" so the ordering window never drifts under the
// tests. 2026-03-02 is a Monday.
var monday = time.Date(2026, time.March, 2, 10, 30, 0, 0, time.Local)

func newTestService(repo *mockRepo) *reservationService {
	return &reservationService{
		repo: repo,
		cfg:  config.ReservationConfig{WindowDays: 30, MaxQuantity: 10},
		now:  func() time.Time { return monday },
	}
}

func assertAppErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %d, got %d (%s)", code, appErr.Code, appErr.Message)
	}
}

func TestWindowOptions_Bounds(t *testing.T) {
	svc := newTestService(&mockRepo{})

	opts := svc.WindowOptions(nil)

	today := datepicker.Normalize(monday)
	if opts.MinDate == nil || !opts.MinDate.Equal(today) {
		t.Errorf("expected MinDate %v, got %v", today, opts.MinDate)
	}
	wantMax := today.AddDate(0, 0, 30)
	if opts.MaxDate == nil || !opts.MaxDate.Equal(wantMax) {
		t.Errorf("expected MaxDate %v, got %v", wantMax, opts.MaxDate)
	}
	if opts.WeekStartsOn != 0 {
		t.Errorf("expected Sunday-first weeks, got %d", opts.WeekStartsOn)
	}
	if !opts.HideOutsideDays {
		t.Error("expected outside days hidden")
	}

	// Today and the final window day are both orderable.
	if opts.IsDisabled(today) {
		t.Error("today should be orderable")
	}
	// 2026-04-01 is a Wednesday, exactly 30 days out.
	if opts.IsDisabled(wantMax) {
		t.Error("final window day should be orderable")
	}
	if !opts.IsDisabled(today.AddDate(0, 0, -1)) {
		t.Error("yesterday should be disabled")
	}
	if !opts.IsDisabled(wantMax.AddDate(0, 0, 1)) {
		t.Error("day past the window should be disabled")
	}
}

func TestWindowOptions_WeekendsDisabled(t *testing.T) {
	svc := newTestService(&mockRepo{})
	opts := svc.WindowOptions(nil)

	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.Local)
	sunday := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.Local)
	tuesday := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.Local)

	if !opts.IsDisabled(saturday) {
		t.Error("Saturday should be disabled")
	}
	if !opts.IsDisabled(sunday) {
		t.Error("Sunday should be disabled")
	}
	if opts.IsDisabled(tuesday) {
		t.Error("weekday inside the window should be orderable")
	}
}

func TestWindowOptions_CarriesSelection(t *testing.T) {
	svc := newTestService(&mockRepo{})
	sel := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)

	opts := svc.WindowOptions(&sel)
	if opts.Selected == nil || !opts.Selected.Equal(sel) {
		t.Errorf("expected selection %v carried through, got %v", sel, opts.Selected)
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	res, err := svc.Create(context.Background(), "user-1", CreateInput{
		Date:     time.Date(2026, time.March, 4, 15, 45, 0, 0, time.Local),
		Kind:     KindLunch,
		Quantity: 2,
		Memo:     "  견과류 제외  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ID == "" {
		t.Error("expected a generated id")
	}
	if res.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %s", res.UserID)
	}
	// Time-of-day is stripped before storage.
	want := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local)
	if !res.Date.Equal(want) {
		t.Errorf("expected normalized date %v, got %v", want, res.Date)
	}
	if res.Memo != "견과류 제외" {
		t.Errorf("expected trimmed memo, got %q", res.Memo)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.created))
	}
}

func TestCreate_InvalidKind(t *testing.T) {
	svc := newTestService(&mockRepo{})

	_, err := svc.Create(context.Background(), "user-1", CreateInput{
		Date:     monday,
		Kind:     Kind("dinner"),
		Quantity: 1,
	})
	assertAppErrorCode(t, err, http.StatusUnprocessableEntity)
}

func TestCreate_QuantityBounds(t *testing.T) {
	svc := newTestService(&mockRepo{})
	date := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local)

	for _, qty := range []int{0, -1, 11} {
		_, err := svc.Create(context.Background(), "user-1", CreateInput{
			Date:     date,
			Kind:     KindLunch,
			Quantity: qty,
		})
		assertAppErrorCode(t, err, http.StatusUnprocessableEntity)
	}

	// Boundary values pass.
	for _, qty := range []int{1, 10} {
		if _, err := svc.Create(context.Background(), "user-1", CreateInput{
			Date:     date,
			Kind:     KindPackaging,
			Quantity: qty,
		}); err != nil {
			t.Errorf("quantity %d should be accepted: %v", qty, err)
		}
	}
}

func TestCreate_DateOutsideWindow(t *testing.T) {
	svc := newTestService(&mockRepo{})

	cases := map[string]time.Time{
		"yesterday":       monday.AddDate(0, 0, -1),
		"past the window": monday.AddDate(0, 0, 31),
		"weekend":         time.Date(2026, time.March, 7, 0, 0, 0, 0, time.Local),
	}
	for name, date := range cases {
		_, err := svc.Create(context.Background(), "user-1", CreateInput{
			Date:     date,
			Kind:     KindLunch,
			Quantity: 1,
		})
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		assertAppErrorCode(t, err, http.StatusUnprocessableEntity)
	}
}

func TestCreate_MemoSanitized(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	res, err := svc.Create(context.Background(), "user-1", CreateInput{
		Date:     time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
		Kind:     KindLunch,
		Quantity: 1,
		Memo:     `<script>alert(1)</script>덜 맵게`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Memo != "덜 맵게" {
		t.Errorf("expected markup stripped from memo, got %q", res.Memo)
	}
}

func TestCreate_DuplicateConflict(t *testing.T) {
	repo := &mockRepo{
		existsForDateFn: func(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "user-1", CreateInput{
		Date:     time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
		Kind:     KindLunch,
		Quantity: 1,
	})
	assertAppErrorCode(t, err, http.StatusConflict)
	if len(repo.created) != 0 {
		t.Error("no insert should happen on a duplicate")
	}
}

func TestCreate_RepositoryErrors(t *testing.T) {
	t.Run("existence check fails", func(t *testing.T) {
		repo := &mockRepo{
			existsForDateFn: func(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error) {
				return false, errors.New("db gone")
			},
		}
		_, err := newTestService(repo).Create(context.Background(), "user-1", CreateInput{
			Date:     time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
			Kind:     KindLunch,
			Quantity: 1,
		})
		assertAppErrorCode(t, err, http.StatusInternalServerError)
	})

	t.Run("insert fails", func(t *testing.T) {
		repo := &mockRepo{
			createFn: func(ctx context.Context, r *Reservation) error {
				return errors.New("db gone")
			},
		}
		_, err := newTestService(repo).Create(context.Background(), "user-1", CreateInput{
			Date:     time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
			Kind:     KindLunch,
			Quantity: 1,
		})
		assertAppErrorCode(t, err, http.StatusInternalServerError)
	})
}

func TestListMonth_Range(t *testing.T) {
	var gotFrom, gotTo time.Time
	repo := &mockRepo{
		listByUserRangeFn: func(ctx context.Context, userID string, from, to time.Time) ([]Reservation, error) {
			gotFrom, gotTo = from, to
			return []Reservation{{ID: "r1"}}, nil
		},
	}
	svc := newTestService(repo)

	list, err := svc.ListMonth(context.Background(), "user-1",
		datepicker.MonthKey{Year: 2026, Month: time.February})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(list))
	}

	wantFrom := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local)
	wantTo := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.Local)
	if !gotFrom.Equal(wantFrom) || !gotTo.Equal(wantTo) {
		t.Errorf("expected range [%v, %v], got [%v, %v]", wantFrom, wantTo, gotFrom, gotTo)
	}
}

func TestCancel_Success(t *testing.T) {
	deleted := false
	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*Reservation, error) {
			return &Reservation{
				ID:     id,
				UserID: "user-1",
				Date:   time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
			}, nil
		},
		deleteFn: func(ctx context.Context, id, userID string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Cancel(context.Background(), "user-1", "res-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected the reservation to be deleted")
	}
}

func TestCancel_ForeignUserLooksLikeNotFound(t *testing.T) {
	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*Reservation, error) {
			return &Reservation{
				ID:     id,
				UserID: "someone-else",
				Date:   time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local),
			}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), "user-1", "res-1")
	assertAppErrorCode(t, err, http.StatusNotFound)
}

func TestCancel_PastDateRejected(t *testing.T) {
	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*Reservation, error) {
			return &Reservation{
				ID:     id,
				UserID: "user-1",
				Date:   monday.AddDate(0, 0, -3),
			}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), "user-1", "res-1")
	assertAppErrorCode(t, err, http.StatusUnprocessableEntity)
}

func TestCancel_TodayAllowed(t *testing.T) {
	repo := &mockRepo{
		findByIDFn: func(ctx context.Context, id string) (*Reservation, error) {
			return &Reservation{
				ID:     id,
				UserID: "user-1",
				Date:   datepicker.Normalize(monday),
			}, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Cancel(context.Background(), "user-1", "res-1"); err != nil {
		t.Fatalf("cancelling today's reservation should succeed: %v", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{})

	err := svc.Cancel(context.Background(), "user-1", "missing")
	assertAppErrorCode(t, err, http.StatusNotFound)
}
