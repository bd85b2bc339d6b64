package dialog

import "testing"

// stackHistory is an in-memory History. Untagged entries model pages the
// dialog opened from.
type stackHistory struct {
	entries []string // "" marks an untagged page entry
}

func newStackHistory(pages int) *stackHistory {
	h := &stackHistory{}
	for i := 0; i < pages; i++ {
		h.entries = append(h.entries, "")
	}
	return h
}

func (h *stackHistory) Push(tag string) {
	h.entries = append(h.entries, tag)
}

func (h *stackHistory) Back() {
	if len(h.entries) == 0 {
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
}

func (h *stackHistory) Top() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	top := h.entries[len(h.entries)-1]
	return top, top != ""
}

func (h *stackHistory) depth() int { return len(h.entries) }

// popBack simulates the browser firing a popstate: the top entry is removed
// and its tag delivered to the handler.
func popBack(h *stackHistory, b *BackHandler) {
	tag, _ := h.Top()
	h.Back()
	b.HandleBack(tag)
}

func TestBackHandler_OpenPushesSingleEntry(t *testing.T) {
	h := newStackHistory(2)
	b := NewBackHandler(h, nil)

	b.Open()
	if h.depth() != 3 {
		t.Fatalf("expected one pushed entry, depth %d", h.depth())
	}
	if !b.IsOpen() {
		t.Error("expected handler to report open")
	}

	// A duplicate open event must not grow the history.
	b.Open()
	if h.depth() != 3 {
		t.Errorf("expected duplicate Open to be a no-op, depth %d", h.depth())
	}
}

func TestBackHandler_CloseRestoresDepth(t *testing.T) {
	h := newStackHistory(2)
	closed := 0
	b := NewBackHandler(h, func() { closed++ })

	before := h.depth()
	b.Open()
	b.Close()

	if h.depth() != before {
		t.Errorf("expected depth %d after close, got %d", before, h.depth())
	}
	if closed != 0 {
		t.Errorf("programmatic close must not invoke onClose, got %d calls", closed)
	}
	if b.IsOpen() {
		t.Error("expected handler closed")
	}
}

func TestBackHandler_BackNavigationClosesOnce(t *testing.T) {
	h := newStackHistory(1)
	closed := 0
	b := NewBackHandler(h, func() { closed++ })

	before := h.depth()
	b.Open()
	popBack(h, b)

	if closed != 1 {
		t.Fatalf("expected exactly one close call, got %d", closed)
	}
	if h.depth() != before {
		t.Errorf("expected depth %d after back, got %d", before, h.depth())
	}

	// The view reacts to onClose by calling Close; the entry is already
	// consumed, so this must not pop the underlying page entry.
	b.Close()
	if h.depth() != before {
		t.Errorf("expected Close after back to leave depth %d, got %d", before, h.depth())
	}

	// Re-delivering the consumed tag must not fire again.
	b.HandleBack("")
	if closed != 1 {
		t.Errorf("expected stale back event to be ignored, got %d calls", closed)
	}
}

func TestBackHandler_ForeignTagIgnored(t *testing.T) {
	h := newStackHistory(1)
	closed := 0
	b := NewBackHandler(h, func() { closed++ })

	b.Open()
	b.HandleBack("someone-elses-entry")

	if closed != 0 {
		t.Errorf("expected foreign tag to be ignored, got %d close calls", closed)
	}
	if !b.IsOpen() {
		t.Error("expected handler to stay open after foreign tag")
	}
}

func TestBackHandler_CloseSkipsPopWhenNotOnTop(t *testing.T) {
	h := newStackHistory(1)
	b := NewBackHandler(h, nil)

	b.Open()
	// The user navigated somewhere on top of the dialog's entry.
	h.Push("")

	b.Close()
	if h.depth() != 3 {
		t.Errorf("expected Close to leave foreign top entry alone, depth %d", h.depth())
	}
	if b.IsOpen() {
		t.Error("expected handler closed even without a pop")
	}
}

func TestBackHandler_ReopenAfterClose(t *testing.T) {
	h := newStackHistory(1)
	closed := 0
	b := NewBackHandler(h, func() { closed++ })

	before := h.depth()

	b.Open()
	b.Close()
	b.Open()
	popBack(h, b)

	if closed != 1 {
		t.Errorf("expected one close from the second cycle, got %d", closed)
	}
	if h.depth() != before {
		t.Errorf("expected depth %d after two cycles, got %d", before, h.depth())
	}
}

func TestBackHandler_TeardownDetaches(t *testing.T) {
	h := newStackHistory(1)
	closed := 0
	b := NewBackHandler(h, func() { closed++ })

	before := h.depth()
	b.Open()
	tag, _ := h.Top()

	b.Teardown()
	if h.depth() != before {
		t.Errorf("expected teardown to remove the live entry, depth %d", h.depth())
	}

	// Events after teardown are dead.
	b.Open()
	if h.depth() != before {
		t.Errorf("expected Open after teardown to be a no-op, depth %d", h.depth())
	}
	b.HandleBack(tag)
	if closed != 0 {
		t.Errorf("expected no close calls after teardown, got %d", closed)
	}
}

func TestBackHandler_NilOnClose(t *testing.T) {
	h := newStackHistory(1)
	b := NewBackHandler(h, nil)

	b.Open()
	popBack(h, b) // must not panic
	if b.IsOpen() {
		t.Error("expected handler closed")
	}
}
