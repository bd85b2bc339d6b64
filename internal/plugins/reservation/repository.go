package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dosirak-app/dosirak/internal/apperror"
)

// ReservationRepository defines the data access contract for reservations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error
	FindByID(ctx context.Context, id string) (*Reservation, error)
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Reservation, error)
	ExistsForDate(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error)
	Delete(ctx context.Context, id, userID string) error
}

// reservationRepository implements ReservationRepository with MariaDB queries.
type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new repository backed by the given DB pool.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation row. The date is stored as a DATE column,
// so only the calendar day survives.
func (r *reservationRepository) Create(ctx context.Context, res *Reservation) error {
	query := `INSERT INTO reservations (id, user_id, date, kind, quantity, memo, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.Date.Format("2006-01-02"),
		string(res.Kind),
		res.Quantity,
		res.Memo,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}

	return nil
}

// FindByID retrieves a reservation by its UUID.
// Returns apperror.NotFound if no reservation exists with this ID.
func (r *reservationRepository) FindByID(ctx context.Context, id string) (*Reservation, error) {
	query := `SELECT id, user_id, date, kind, quantity, memo, created_at
	          FROM reservations WHERE id = ?`

	res := &Reservation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.UserID,
		&res.Date,
		&res.Kind,
		&res.Quantity,
		&res.Memo,
		&res.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("reservation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying reservation by id: %w", err)
	}

	return res, nil
}

// ListByUserRange returns a user's reservations with date in [from, to],
// ordered by date then kind.
func (r *reservationRepository) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]Reservation, error) {
	query := `SELECT id, user_id, date, kind, quantity, memo, created_at
	          FROM reservations
	          WHERE user_id = ? AND date BETWEEN ? AND ?
	          ORDER BY date, kind`

	rows, err := r.db.QueryContext(ctx, query, userID,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.Date, &res.Kind,
			&res.Quantity, &res.Memo, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservation rows: %w", err)
	}

	return reservations, nil
}

// ExistsForDate returns true if the user already holds a reservation of the
// given kind on the given date.
func (r *reservationRepository) ExistsForDate(ctx context.Context, userID string, date time.Time, kind Kind) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reservations WHERE user_id = ? AND date = ? AND kind = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, date.Format("2006-01-02"), string(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking reservation existence: %w", err)
	}

	return exists, nil
}

// Delete removes a reservation, scoped to the owning user so one user can
// never cancel another's reservation.
func (r *reservationRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM reservations WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("reservation not found")
	}

	return nil
}
