// Package audit holds the bookkeeping columns shared by every domain entity.
package audit

import (
	"context"
	"strings"
	"time"
)

// SystemActor is recorded when no authenticated user is attached to the context.
const SystemActor = "system"

// Fields is embedded into domain entities. Only the repository layer writes it.
type Fields struct {
	CreatedBy    string     `gorm:"size:256;not null"`
	DateCreated  time.Time  `gorm:"not null"`
	ModifiedBy   *string    `gorm:"size:256"`
	DateModified *time.Time
	Deleted      bool `gorm:"not null;default:false;index"`
}

// Audit gives generic code access to the embedded fields.
func (f *Fields) Audit() *Fields { return f }

// MarkCreated stamps a new row and clears any soft-delete flag.
func (f *Fields) MarkCreated(actor string, now time.Time) {
	f.CreatedBy = actor
	f.DateCreated = now
	f.ModifiedBy = nil
	f.DateModified = nil
	f.Deleted = false
}

func (f *Fields) MarkModified(actor string, now time.Time) {
	f.ModifiedBy = &actor
	f.DateModified = &now
}

// KeepCreated copies the creation stamp from the stored row so updates never overwrite it.
func (f *Fields) KeepCreated(stored Fields) {
	f.CreatedBy = stored.CreatedBy
	f.DateCreated = stored.DateCreated
	f.Deleted = stored.Deleted
}

// View is the JSON shape of the audit columns in API responses.
type View struct {
	CreatedBy    string     `json:"createdBy"`
	DateCreated  time.Time  `json:"dateCreated"`
	ModifiedBy   *string    `json:"modifiedBy"`
	DateModified *time.Time `json:"dateModified"`
}

func (f Fields) View() View {
	return View{
		CreatedBy:    f.CreatedBy,
		DateCreated:  f.DateCreated,
		ModifiedBy:   f.ModifiedBy,
		DateModified: f.DateModified,
	}
}

type actorKey struct{}

// WithActor attaches the acting username to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting username, or SystemActor.
func ActorFrom(ctx context.Context) string {
	if ctx == nil {
		return SystemActor
	}
	if actor, ok := ctx.Value(actorKey{}).(string); ok && strings.TrimSpace(actor) != "" {
		return actor
	}
	return SystemActor
}
