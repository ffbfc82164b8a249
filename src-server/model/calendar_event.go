package model

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type EventSource string

const (
	EventSourceManual EventSource = "manual"
	EventSourceAI     EventSource = "ai"
)

// CalendarEvent is a single scheduled piece of content. Dates are stored
// as unix seconds; whole-day events are normalized to midnight local.
type CalendarEvent struct {
	bun.BaseModel `bun:"table:calendar_events"`

	ID          string `bun:"id,pk"`              // required
	OwnerID     string `bun:"owner_id,notnull"`   // required, immutable
	Title       string `bun:"title,notnull"`      // required
	Description string `bun:"description"`

	StartDateUnix int64 `bun:"start_date,notnull"` // required
	EndDateUnix   int64 `bun:"end_date"`
	AllDay        bool  `bun:"all_day"`

	Color  string      `bun:"color"`
	Source EventSource `bun:"source,notnull"` // required

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *CalendarEvent) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*CalendarEvent).Validate: event id is blank")
	case e.OwnerID == "":
		return fmt.Errorf("(*CalendarEvent).Validate: owner id is blank")
	case e.Title == "":
		return fmt.Errorf("(*CalendarEvent).Validate: title is blank")
	case e.StartDateUnix == 0:
		return fmt.Errorf("(*CalendarEvent).Validate: start date is blank")
	case e.EndDateUnix != 0 && e.StartDateUnix > e.EndDateUnix:
		return fmt.Errorf("(*CalendarEvent).Validate: start date must be before end date")
	case e.Source != EventSourceManual && e.Source != EventSourceAI:
		return fmt.Errorf("(*CalendarEvent).Validate: unknown source %q", e.Source)
	}
	return nil
}

// StartDate returns the event's start as a local time value.
func (e *CalendarEvent) StartDate() time.Time {
	return time.Unix(e.StartDateUnix, 0)
}
