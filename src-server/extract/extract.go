// Package extract turns a free-form assistant chat message into a
// structured calendar event using layered heuristics: an ordered date-rule
// waterfall plus independent title and description fallback chains. The
// resolvers are pure and deterministic given the same message and
// reference date; only ExtractAndScheduleEvent touches the store.
package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postpilot/src-server/model"
	"postpilot/src-server/store"
)

// ErrNoDate means no heuristic matched a date expression. Terminal for the
// message: no event may be created from it.
var ErrNoDate = errors.New("no date expression found in message")

// Parsed is the best-effort reading of a message. Title and Description
// are never empty; StartDate is midnight of the resolved day.
type Parsed struct {
	Title       string
	Description string
	StartDate   time.Time
}

// Parse resolves date, title, and description against the reference date.
// Returns ErrNoDate when the date waterfall comes up empty; title and
// description always resolve via their fallbacks.
func Parse(msg string, now time.Time) (Parsed, error) {
	date, ok := ResolveDate(msg, now)
	if !ok {
		return Parsed{}, fmt.Errorf("Parse: %w", ErrNoDate)
	}
	title := ResolveTitle(msg, date)
	return Parsed{
		Title:       title,
		Description: ResolveDescription(msg, title),
		StartDate:   date,
	}, nil
}

// ExtractAndScheduleEvent parses the message and persists the resulting
// all-day event for ownerID. Returns the new event id, ErrNoDate when the
// message holds no usable date, or the store's error; it is the caller's
// choice to surface or swallow either.
func ExtractAndScheduleEvent(ctx context.Context, events store.EventStore, msg, ownerID string, now time.Time) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("ExtractAndScheduleEvent: owner id is blank")
	}

	parsed, err := Parse(msg, now)
	if err != nil {
		return "", fmt.Errorf("ExtractAndScheduleEvent: %w", err)
	}

	id, err := events.Create(ctx, &model.CalendarEvent{
		OwnerID:       ownerID,
		Title:         parsed.Title,
		Description:   parsed.Description,
		StartDateUnix: parsed.StartDate.Unix(),
		AllDay:        true,
		Source:        model.EventSourceAI,
	})
	if err != nil {
		return "", fmt.Errorf("ExtractAndScheduleEvent: %w", err)
	}

	return id, nil
}
