// Package pageview records which pages authenticated users visit. Every
// qualifying page load is captured as a PageView row; a Redis guard keyed by
// user suppresses consecutive duplicate records so a user reloading the same
// page doesn't flood the table. Recording is fire-and-forget: it never
// blocks or fails the page request itself.
package pageview

import "time"

// PageView represents a single recorded page visit.
type PageView struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"userId"`
	Path     string    `json:"path"`
	ViewedAt time.Time `json:"viewedAt"`
}
