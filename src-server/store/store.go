package store

import (
	"context"
	"errors"

	"postpilot/src-server/model"
)

var (
	// ErrStorage wraps failures of the underlying persistence layer.
	// Callers on the assistant path treat it as "could not schedule".
	ErrStorage = errors.New("storage operation failed")

	ErrEventNotFound        = errors.New("calendar event not found")
	ErrSubscriptionNotFound = errors.New("calendar subscription not found")
)

// EventStore owns persistence of calendar events, scoped per owner. The
// extractor and the HTTP surface only ever talk to this interface; whether
// the backing store is document-based, relational, or in-memory is not
// their concern.
type EventStore interface {
	// ListByOwner returns every event owned by ownerID. No events is an
	// empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID string) ([]model.CalendarEvent, error)

	// Create assigns the id and timestamps, persists the event, and
	// returns the new id.
	Create(ctx context.Context, event *model.CalendarEvent) (string, error)

	// Update applies the non-nil fields of patch to the owner's event and
	// refreshes its updated-at timestamp. Returns ErrEventNotFound when no
	// such event exists for that owner.
	Update(ctx context.Context, ownerID, eventID string, patch EventPatch) error

	// Delete removes the owner's event. Returns ErrEventNotFound when it
	// is already absent.
	Delete(ctx context.Context, ownerID, eventID string) error
}

// SubscriptionStore owns the ICS feed tokens. Independent of event CRUD.
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, ownerID, name string) (*model.CalendarSubscription, error)
	ListSubscriptionsByOwner(ctx context.Context, ownerID string) ([]model.CalendarSubscription, error)
	DeleteSubscription(ctx context.Context, subscriptionID string) error
	SubscriptionByToken(ctx context.Context, token string) (*model.CalendarSubscription, error)
}

// EventPatch carries a partial update; nil fields are left untouched.
type EventPatch struct {
	Title         *string
	Description   *string
	StartDateUnix *int64
	EndDateUnix   *int64
	AllDay        *bool
	Color         *string
}
