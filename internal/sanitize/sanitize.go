// Package sanitize cleans user-provided text before storage. Reservation
// memos are plain text: any markup a user pastes in is stripped entirely
// with bluemonday so nothing executable or styled can reach the database.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy. Initialized once via sync.Once
// for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// StrictPolicy removes every HTML element and attribute, leaving
		// only the text content.
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Memo sanitizes a reservation memo: markup is stripped, surrounding
// whitespace trimmed. MUST be called before storing user memo text.
func Memo(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(input))
}
