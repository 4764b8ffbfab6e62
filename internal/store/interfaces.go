package store

import (
	"context"
	"errors"

	"taskdog.app/bot/internal/model"
)

// ErrNotFound is returned when a requested record does not exist within the
// caller's owner scope.
var ErrNotFound = errors.New("not found")

// TaskStore is the gateway to the two task collections. Each call is a single
// blocking round-trip to the remote store with no client-side retry; a failed
// Insert must be surfaced as "could not save" without assuming the record was
// not partially written.
type TaskStore interface {
	// Insert persists a record and returns it with the store-assigned id.
	Insert(ctx context.Context, col model.Collection, task model.Task) (model.Task, error)

	// GetByID is an owner-scoped lookup: it filters by both id and owner so a
	// user can never read another owner's task by id.
	GetByID(ctx context.Context, col model.Collection, id int64, ownerID string) (*model.Task, error)

	// DeleteByID deletes unconditionally by id. Ownership is enforced by the
	// preceding GetByID.
	DeleteByID(ctx context.Context, col model.Collection, id int64) error

	// ListByOwner returns all records for an owner, in store-defined order.
	ListByOwner(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error)

	// Archive relocates a task, already carrying its terminal status, from the
	// active collection into the archive. Implementations must tolerate
	// re-execution: either run the move in one transaction or make the insert
	// conditional and the delete idempotent.
	Archive(ctx context.Context, task model.Task) error
}
