package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpilot/src-server/extract"
	"postpilot/src-server/model"
	"postpilot/src-server/store"
)

type fakeEventStore struct {
	events  []model.CalendarEvent
	failing bool
}

var _ store.EventStore = (*fakeEventStore)(nil)

func (f *fakeEventStore) ListByOwner(_ context.Context, ownerID string) ([]model.CalendarEvent, error) {
	out := make([]model.CalendarEvent, 0)
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Create(_ context.Context, event *model.CalendarEvent) (string, error) {
	if f.failing {
		return "", store.ErrStorage
	}
	event.ID = uuid.NewString()
	now := time.Now().UTC().Unix()
	event.CreatedAt = now
	event.UpdatedAt = now
	f.events = append(f.events, *event)
	return event.ID, nil
}

func (f *fakeEventStore) Update(context.Context, string, string, store.EventPatch) error {
	return nil
}

func (f *fakeEventStore) Delete(context.Context, string, string) error {
	return nil
}

func TestParseNoDate(t *testing.T) {
	_, err := extract.Parse("Let's talk about cats", refDate)
	assert.ErrorIs(t, err, extract.ErrNoDate)
}

func TestParseFieldsNeverEmpty(t *testing.T) {
	parsed, err := extract.Parse("Post something tomorrow", refDate)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Title)
	assert.NotEmpty(t, parsed.Description)
}

func TestExtractAndScheduleEvent(t *testing.T) {
	events := &fakeEventStore{}
	msg := `Please schedule a video titled "Summer Trends" on June 15th`

	id, err := extract.ExtractAndScheduleEvent(context.Background(), events, msg, "user-a", refDate)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, events.events, 1)
	created := events.events[0]
	assert.Equal(t, "user-a", created.OwnerID)
	assert.Equal(t, "Summer Trends", created.Title)
	assert.NotEmpty(t, created.Description)
	assert.Equal(t, day(2025, time.June, 15).Unix(), created.StartDateUnix)
	assert.True(t, created.AllDay)
	assert.Equal(t, model.EventSourceAI, created.Source)
}

func TestExtractAndScheduleEventNoDate(t *testing.T) {
	events := &fakeEventStore{}

	_, err := extract.ExtractAndScheduleEvent(context.Background(), events, "Let's talk about cats", "user-a", refDate)
	assert.ErrorIs(t, err, extract.ErrNoDate)
	assert.Empty(t, events.events, "no event may be created without a date")
}

func TestExtractAndScheduleEventStorageFailure(t *testing.T) {
	events := &fakeEventStore{failing: true}

	_, err := extract.ExtractAndScheduleEvent(context.Background(), events, "Post it tomorrow", "user-a", refDate)
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestExtractAndScheduleEventRepeatable(t *testing.T) {
	events := &fakeEventStore{}
	msg := "**Date:** July 10, 2025\n**Event Name:** Q3 Recap\n\nRecap of the quarter."

	firstID, err := extract.ExtractAndScheduleEvent(context.Background(), events, msg, "user-a", refDate)
	require.NoError(t, err)
	secondID, err := extract.ExtractAndScheduleEvent(context.Background(), events, msg, "user-a", refDate)
	require.NoError(t, err)

	// same input yields the same payload but two distinct events
	require.Len(t, events.events, 2)
	assert.NotEqual(t, firstID, secondID)
	assert.Equal(t, events.events[0].Title, events.events[1].Title)
	assert.Equal(t, events.events[0].Description, events.events[1].Description)
	assert.Equal(t, events.events[0].StartDateUnix, events.events[1].StartDateUnix)
	assert.Equal(t, "Q3 Recap", events.events[0].Title)
	assert.Equal(t, day(2025, time.July, 10).Unix(), events.events[0].StartDateUnix)
}

func TestExtractAndScheduleEventBlankOwner(t *testing.T) {
	events := &fakeEventStore{}
	_, err := extract.ExtractAndScheduleEvent(context.Background(), events, "Post it tomorrow", "", refDate)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, extract.ErrNoDate))
}
