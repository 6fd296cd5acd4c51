// Package sync pushes discovered contacts to downstream CRM and workspace
// tools. Targets are best-effort: a record that one system rejects is
// counted and logged, never fatal to the rest of the push.
package sync

import (
	"context"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// Result summarizes one push to one target.
type Result struct {
	Target  string   `json:"target"`
	Pushed  int      `json:"pushed"`  // new records created
	Updated int      `json:"updated"` // existing records refreshed in place
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
	Skipped int      `json:"skipped"` // records the target cannot represent
}

// Target is a destination contacts can be pushed to.
type Target interface {
	Name() string
	PushContacts(ctx context.Context, persons []model.Person) (*Result, error)
}
