package pageview

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// mockRepo implements PageViewRepository for testing.
type mockRepo struct {
	insertFn     func(ctx context.Context, view *PageView) error
	listByUserFn func(ctx context.Context, userID string, limit int) ([]PageView, error)
	inserted     []PageView
}

func (m *mockRepo) Insert(ctx context.Context, view *PageView) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, view); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, *view)
	return nil
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string, limit int) ([]PageView, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

// newTestService wires a service to a mock repo and miniredis.
func newTestService(t *testing.T, repo *mockRepo) (PageViewService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewPageViewService(repo, rdb), mr
}

func TestRecord_InsertsView(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	v := repo.inserted[0]
	if v.UserID != "user-1" || v.Path != "/reservations" {
		t.Errorf("unexpected view: %+v", v)
	}
	if v.ViewedAt.IsZero() {
		t.Error("expected ViewedAt to be stamped")
	}
}

func TestRecord_SuppressesConsecutiveDuplicates(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	for i := 0; i < 3; i++ {
		if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
	}

	if len(repo.inserted) != 1 {
		t.Errorf("expected duplicate views suppressed to 1 insert, got %d", len(repo.inserted))
	}
}

func TestRecord_DifferentPathsRecordedSeparately(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	paths := []string{"/reservations", "/", "/reservations"}
	for _, p := range paths {
		if err := svc.Record(context.Background(), "user-1", p); err != nil {
			t.Fatalf("unexpected error for %s: %v", p, err)
		}
	}

	// A-B-A navigation records all three: only consecutive repeats collapse.
	if len(repo.inserted) != 3 {
		t.Errorf("expected 3 inserts for alternating paths, got %d", len(repo.inserted))
	}
}

func TestRecord_GuardIsPerUser(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Record(context.Background(), "user-2", "/reservations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inserted) != 2 {
		t.Errorf("expected one insert per user, got %d", len(repo.inserted))
	}
}

func TestRecord_GuardExpiryAllowsReRecord(t *testing.T) {
	repo := &mockRepo{}
	svc, mr := newTestService(t, repo)

	if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Let the guard TTL lapse.
	mr.FastForward(guardTTL + 1)

	if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inserted) != 2 {
		t.Errorf("expected re-record after guard expiry, got %d inserts", len(repo.inserted))
	}
}

func TestRecord_InsertFailureClearsGuard(t *testing.T) {
	fail := true
	repo := &mockRepo{
		insertFn: func(ctx context.Context, view *PageView) error {
			if fail {
				return errors.New("db write error")
			}
			return nil
		},
	}
	svc, mr := newTestService(t, repo)

	if err := svc.Record(context.Background(), "user-1", "/reservations"); err == nil {
		t.Fatal("expected error from failed insert")
	}

	// The guard must have been cleared so the view can be retried.
	if mr.Exists(guardKeyPrefix + "user-1") {
		t.Error("expected guard key cleared after failed insert")
	}

	// Retry of the same path succeeds and is recorded.
	fail = false
	if err := svc.Record(context.Background(), "user-1", "/reservations"); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected 1 insert after retry, got %d", len(repo.inserted))
	}
}

func TestRecord_Validation(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	if err := svc.Record(context.Background(), "", "/reservations"); err == nil {
		t.Error("expected error for empty user ID")
	}
	if err := svc.Record(context.Background(), "user-1", ""); err == nil {
		t.Error("expected error for empty path")
	}
	if len(repo.inserted) != 0 {
		t.Errorf("expected no inserts for invalid input, got %d", len(repo.inserted))
	}
}

func TestRecentViews_DelegatesToRepo(t *testing.T) {
	repo := &mockRepo{
		listByUserFn: func(ctx context.Context, userID string, limit int) ([]PageView, error) {
			if userID != "user-1" {
				t.Errorf("expected user-1, got %s", userID)
			}
			if limit != maxRecentViews {
				t.Errorf("expected limit %d, got %d", maxRecentViews, limit)
			}
			return []PageView{{ID: 1, UserID: userID, Path: "/reservations"}}, nil
		},
	}
	svc, _ := newTestService(t, repo)

	views, err := svc.RecentViews(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("expected 1 view, got %d", len(views))
	}
}

func TestRecentViews_RequiresUserID(t *testing.T) {
	svc, _ := newTestService(t, &mockRepo{})
	if _, err := svc.RecentViews(context.Background(), ""); err == nil {
		t.Error("expected error for empty user ID")
	}
}
