package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"postpilot/src-server/model"
	"postpilot/src-server/store"
)

func newTestStore(t *testing.T) *store.BunStore {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())
	require.NoError(t, model.CreateSchema(bundb))

	return store.NewBunStore(bundb, nil)
}

func TestEventCreateAssignsIDAndTimestamps(t *testing.T) {
	events := newTestStore(t)

	eventModel := model.CalendarEvent{
		OwnerID:       "user-a",
		Title:         "Summer Trends",
		Description:   "Trend recap video",
		StartDateUnix: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local).Unix(),
		AllDay:        true,
		Source:        model.EventSourceAI,
	}
	id, err := events.Create(context.Background(), &eventModel)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, eventModel.ID)
	assert.NotZero(t, eventModel.CreatedAt)
	assert.Equal(t, eventModel.CreatedAt, eventModel.UpdatedAt)
}

func TestEventCreateRejectsInvalid(t *testing.T) {
	events := newTestStore(t)

	_, err := events.Create(context.Background(), &model.CalendarEvent{
		OwnerID:       "user-a",
		StartDateUnix: time.Now().Unix(),
		Source:        model.EventSourceManual,
	})
	assert.Error(t, err, "blank title must be rejected before persisting")

	listed, listErr := events.ListByOwner(context.Background(), "user-a")
	require.NoError(t, listErr)
	assert.Empty(t, listed, "no partial event may be persisted")
}

func TestEventListScopedToOwner(t *testing.T) {
	events := newTestStore(t)

	for _, owner := range []string{"user-a", "user-a", "user-b"} {
		_, err := events.Create(context.Background(), &model.CalendarEvent{
			OwnerID:       owner,
			Title:         "post for " + owner,
			StartDateUnix: time.Now().Unix(),
			Source:        model.EventSourceManual,
		})
		require.NoError(t, err)
	}

	listedA, err := events.ListByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Len(t, listedA, 2)
	for _, e := range listedA {
		assert.Equal(t, "user-a", e.OwnerID)
	}

	listedC, err := events.ListByOwner(context.Background(), "user-c")
	require.NoError(t, err)
	assert.NotNil(t, listedC)
	assert.Empty(t, listedC)
}

func TestEventUpdate(t *testing.T) {
	events := newTestStore(t)

	eventModel := model.CalendarEvent{
		OwnerID:       "user-a",
		Title:         "before",
		StartDateUnix: time.Now().Unix(),
		Source:        model.EventSourceManual,
	}
	id, err := events.Create(context.Background(), &eventModel)
	require.NoError(t, err)

	newTitle := "after"
	require.NoError(t, events.Update(context.Background(), "user-a", id, store.EventPatch{Title: &newTitle}))

	listed, err := events.ListByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "after", listed[0].Title)
	assert.GreaterOrEqual(t, listed[0].UpdatedAt, listed[0].CreatedAt)

	// wrong owner or unknown id look the same: not found
	err = events.Update(context.Background(), "user-b", id, store.EventPatch{Title: &newTitle})
	assert.ErrorIs(t, err, store.ErrEventNotFound)
	err = events.Update(context.Background(), "user-a", "nope", store.EventPatch{Title: &newTitle})
	assert.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestEventDelete(t *testing.T) {
	events := newTestStore(t)

	eventModel := model.CalendarEvent{
		OwnerID:       "user-a",
		Title:         "goner",
		StartDateUnix: time.Now().Unix(),
		Source:        model.EventSourceManual,
	}
	id, err := events.Create(context.Background(), &eventModel)
	require.NoError(t, err)

	require.ErrorIs(t, events.Delete(context.Background(), "user-b", id), store.ErrEventNotFound)
	require.NoError(t, events.Delete(context.Background(), "user-a", id))
	require.ErrorIs(t, events.Delete(context.Background(), "user-a", id), store.ErrEventNotFound)

	listed, err := events.ListByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubscriptionLifecycle(t *testing.T) {
	subscriptions := newTestStore(t)

	created, err := subscriptions.CreateSubscription(context.Background(), "user-a", "phone calendar")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "user-a", created.OwnerID)

	byToken, err := subscriptions.SubscriptionByToken(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byToken.ID)

	_, err = subscriptions.SubscriptionByToken(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, store.ErrSubscriptionNotFound)

	listed, err := subscriptions.ListSubscriptionsByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, subscriptions.DeleteSubscription(context.Background(), created.ID))
	require.ErrorIs(t, subscriptions.DeleteSubscription(context.Background(), created.ID), store.ErrSubscriptionNotFound)

	listed, err = subscriptions.ListSubscriptionsByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubscriptionCreateRequiresOwner(t *testing.T) {
	subscriptions := newTestStore(t)
	_, err := subscriptions.CreateSubscription(context.Background(), "", "nameless")
	assert.Error(t, err)
}
