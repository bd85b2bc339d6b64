package pageview

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PageViewRepository defines the data access contract for page view records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type PageViewRepository interface {
	// Insert persists a new page view row.
	Insert(ctx context.Context, view *PageView) error

	// ListByUser returns a user's most recent page views, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]PageView, error)
}

// pageViewRepository implements PageViewRepository with MariaDB queries.
type pageViewRepository struct {
	db *sql.DB
}

// NewPageViewRepository creates a new repository backed by the given DB pool.
func NewPageViewRepository(db *sql.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

// Insert persists a page view. A zero ViewedAt is stamped with the current
// time so callers can leave it unset.
func (r *pageViewRepository) Insert(ctx context.Context, view *PageView) error {
	query := `INSERT INTO page_views (user_id, path, viewed_at) VALUES (?, ?, ?)`

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query, view.UserID, view.Path, view.ViewedAt)
	if err != nil {
		return fmt.Errorf("inserting page view: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting page view id: %w", err)
	}
	view.ID = id

	return nil
}

// ListByUser returns the user's most recent page views, newest first.
func (r *pageViewRepository) ListByUser(ctx context.Context, userID string, limit int) ([]PageView, error) {
	query := `SELECT id, user_id, path, viewed_at
	          FROM page_views
	          WHERE user_id = ?
	          ORDER BY viewed_at DESC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing page views: %w", err)
	}
	defer rows.Close()

	var views []PageView
	for rows.Next() {
		var v PageView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Path, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("scanning page view: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page view rows: %w", err)
	}

	return views, nil
}
