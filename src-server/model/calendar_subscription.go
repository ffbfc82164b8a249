package model

import "github.com/uptrace/bun"

// CalendarSubscription is an opaque token bound to one owner, used by the
// ICS feed route to authorize read-only export of that owner's events.
// Created on demand, deleted explicitly, never expires.
type CalendarSubscription struct {
	bun.BaseModel `bun:"table:calendar_subscriptions"`

	ID        string `bun:"id,pk"`
	Token     string `bun:"token,notnull,unique"`
	OwnerID   string `bun:"owner_id,notnull"`
	Name      string `bun:"name"`
	CreatedAt int64  `bun:"created_at,notnull"`
}
