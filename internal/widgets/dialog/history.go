// Package dialog implements the back-button contract for dialog-like
// surfaces on mobile: while a dialog is open, the device back action closes
// it instead of leaving the page, and no stray history entries survive a
// close. The browser glue lives in static/js/dosirak.js; this package holds
// the state machine it drives, expressed over an abstract History so the
// behavior is testable without a browser.
package dialog

import "github.com/google/uuid"

// History abstracts the host's navigation history as a stack of tagged
// entries. The browser adapter maps Push to history.pushState with the tag
// in the state object and Back to history.back().
type History interface {
	// Push adds a tagged entry on top of the stack.
	Push(tag string)

	// Back removes the top entry.
	Back()

	// Top returns the tag of the top entry, or ok=false when the stack
	// top is not a tagged entry (e.g. the page the dialog opened from).
	Top() (tag string, ok bool)
}

// BackHandler ties one dialog instance to the history stack. Each open
// pushes exactly one uniquely tagged entry; the tag is cleared as soon as
// the entry is consumed, so repeated open/close cycles in either order
// leave the history depth unchanged.
type BackHandler struct {
	history History
	onClose func()

	// tag is non-empty while this instance's entry may still be live.
	tag string

	// detached is set by Teardown; afterwards events are ignored so a
	// handler outliving its view never acts on stale state.
	detached bool
}

// NewBackHandler creates a handler for one dialog surface. onClose is
// invoked when a back navigation consumes the dialog's history entry.
func NewBackHandler(history History, onClose func()) *BackHandler {
	return &BackHandler{history: history, onClose: onClose}
}

// Open registers the dialog's history entry. Opening an already-open
// dialog is a no-op so double events cannot grow the history.
func (b *BackHandler) Open() {
	if b.detached || b.tag != "" {
		return
	}
	b.tag = uuid.NewString()
	b.history.Push(b.tag)
}

// HandleBack is invoked by the host when a back navigation popped the
// entry carrying tag. If it is this instance's live entry, the close
// callback fires exactly once and the tag is cleared. A foreign tag, an
// already-consumed tag, or a detached handler is a silent no-op: the
// handler never fights the host's navigation.
func (b *BackHandler) HandleBack(tag string) {
	if b.detached || b.tag == "" || tag != b.tag {
		return
	}
	b.tag = ""
	if b.onClose != nil {
		b.onClose()
	}
}

// Close handles a programmatic close (close button, overlay tap). The
// pushed entry is removed by navigating back one step if-and-only-if it is
// still the top of the history; if the user navigated elsewhere since, the
// history is left alone.
func (b *BackHandler) Close() {
	if b.detached || b.tag == "" {
		return
	}
	if top, ok := b.history.Top(); ok && top == b.tag {
		b.history.Back()
	}
	b.tag = ""
}

// IsOpen reports whether this handler currently owns a live history entry.
func (b *BackHandler) IsOpen() bool {
	return b.tag != ""
}

// Teardown detaches the handler from its history. It removes a still-live
// entry like Close and then ignores all further events.
func (b *BackHandler) Teardown() {
	b.Close()
	b.detached = true
}
