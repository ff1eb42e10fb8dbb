// Package store persists setup status lines between the setup stage and
// later status queries.
package store

import "context"

// StatusStore saves and loads the status lines of an action's setup.
type StatusStore interface {
	Save(ctx context.Context, action string, lines []string) error
	// Load returns the saved lines; ok is false when nothing was saved.
	Load(ctx context.Context, action string) (lines []string, ok bool, err error)
}
