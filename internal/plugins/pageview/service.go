package pageview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dosirak-app/dosirak/internal/apperror"
)

// guardKeyPrefix is the Redis key prefix for the per-user duplicate guard.
// The value is the last path recorded for that user.
const guardKeyPrefix = "pageview:last:"

// guardTTL is how long the duplicate guard lives. After it expires, the
// next view of the same page is recorded again.
const guardTTL = 30 * time.Minute

// maxRecentViews caps the number of rows returned for a single user's
// history to prevent unbounded result sets.
const maxRecentViews = 100

// PageViewService handles business logic for page view recording. It
// validates inputs, applies the duplicate guard, and delegates persistence
// to the repository.
type PageViewService interface {
	// Record logs a page visit for a user. Consecutive views of the same
	// path are suppressed via the Redis guard. Designed to be fire-and-
	// forget friendly: errors are logged and callers may ignore them since
	// view tracking must never block the page itself.
	Record(ctx context.Context, userID, path string) error

	// RecentViews returns the user's most recent recorded page views.
	RecentViews(ctx context.Context, userID string) ([]PageView, error)
}

// pageViewService implements PageViewService.
type pageViewService struct {
	repo  PageViewRepository
	redis *redis.Client
}

// NewPageViewService creates a new page view service.
func NewPageViewService(repo PageViewRepository, rdb *redis.Client) PageViewService {
	return &pageViewService{repo: repo, redis: rdb}
}

// Record logs one page visit. The guard key holds the last path recorded
// for the user; when it matches the incoming path the insert is skipped.
// When the insert fails the guard is cleared, so the next view of the same
// page is attempted again rather than silently dropped. If the guard was
// written before a failed insert this can record the same page twice after
// a transient DB error; a duplicate row is preferable to a lost one.
func (s *pageViewService) Record(ctx context.Context, userID, path string) error {
	if userID == "" {
		return apperror.NewBadRequest("user ID is required for page view")
	}
	if path == "" {
		return apperror.NewBadRequest("path is required for page view")
	}

	guardKey := guardKeyPrefix + userID

	last, err := s.redis.Get(ctx, guardKey).Result()
	if err != nil && err != redis.Nil {
		// Redis trouble must not lose the view; record without the guard.
		slog.Warn("page view guard unavailable",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
	if err == nil && last == path {
		return nil
	}

	// Arm the guard before the insert so concurrent loads of the same page
	// collapse into one row.
	if err := s.redis.Set(ctx, guardKey, path, guardTTL).Err(); err != nil {
		slog.Warn("failed to set page view guard",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	if err := s.repo.Insert(ctx, &PageView{UserID: userID, Path: path}); err != nil {
		// Clear the guard so the view isn't permanently swallowed.
		if delErr := s.redis.Del(ctx, guardKey).Err(); delErr != nil {
			slog.Warn("failed to clear page view guard",
				slog.String("user_id", userID),
				slog.Any("error", delErr),
			)
		}
		slog.Error("failed to record page view",
			slog.String("user_id", userID),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperror.NewInternal(fmt.Errorf("recording page view: %w", err))
	}

	return nil
}

// RecentViews returns the user's most recent page views, capped at
// maxRecentViews.
func (s *pageViewService) RecentViews(ctx context.Context, userID string) ([]PageView, error) {
	if userID == "" {
		return nil, apperror.NewBadRequest("user ID is required")
	}

	views, err := s.repo.ListByUser(ctx, userID, maxRecentViews)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing page views: %w", err))
	}

	return views, nil
}
