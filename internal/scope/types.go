// Package scope implements the scope entity and its SQLite-backed store.
//
// A scope is one tracked unit of work: ULID identity, a title, a status,
// human-friendly aliases, and free-form aspect metadata. The store owns
// persistence and feeds the filter engine with per-scope aspect maps; the
// engine itself never touches the database.
package scope

import (
	"fmt"
	"strings"
)

// Status tracks the lifecycle of a scope.
type Status string

const (
	StatusPending Status = "pending"
	StatusStarted Status = "started"
	StatusDone    Status = "done"
	StatusDropped Status = "dropped"
)

// validStatuses is the set of allowed scope statuses.
var validStatuses = map[Status]bool{
	StatusPending: true,
	StatusStarted: true,
	StatusDone:    true,
	StatusDropped: true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid scope status %q: must be one of: pending, started, done, dropped", s)
	}
	return nil
}

// Scope is one tracked unit of work.
type Scope struct {
	ID        string `json:"id"` // ULID
	Title     string `json:"title"`
	Status    Status `json:"status"`
	Alias     string `json:"alias"` // canonical alias
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Slugify derives an alias slug from a scope title: lowercase, runs of
// separators collapsed to single hyphens, everything else dropped.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-' || r == '.' || r == '/':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "scope"
	}
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	return slug
}
