package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"postpilot/src-server/model"
	"postpilot/src-server/utils"
)

const opTimeout = 5 * time.Second

// BunStore is the SQLite-backed EventStore and SubscriptionStore. Every
// operation is a single-row statement under a bounded timeout; writes get
// one retry. There are no cross-row transactions and no optimistic
// concurrency checks, so a concurrent update and delete on the same event
// is last-write-wins.
type BunStore struct {
	db      bun.IDB
	metrics *utils.Metric
}

var (
	_ EventStore        = (*BunStore)(nil)
	_ SubscriptionStore = (*BunStore)(nil)
)

// NewBunStore wraps a bun database handle. metrics may be nil; latency
// samples are then dropped.
func NewBunStore(db bun.IDB, metrics *utils.Metric) *BunStore {
	return &BunStore{db: db, metrics: metrics}
}

func (s *BunStore) ListByOwner(ctx context.Context, ownerID string) ([]model.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	events := make([]model.CalendarEvent, 0)
	if err := s.db.NewSelect().
		Model(&events).
		Where("owner_id = ?", ownerID).
		Order("start_date ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*BunStore).ListByOwner: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportRead(float64(time.Since(start).Microseconds()))

	return events, nil
}

func (s *BunStore) Create(ctx context.Context, event *model.CalendarEvent) (string, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC().Unix()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := event.Validate(); err != nil {
		return "", fmt.Errorf("(*BunStore).Create: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	if err := s.retryWrite(ctx, func(ctx context.Context) error {
		_, err := s.db.NewInsert().
			Model(event).
			Exec(ctx)
		return err
	}); err != nil {
		return "", fmt.Errorf("(*BunStore).Create: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportWrite(float64(time.Since(start).Microseconds()))

	return event.ID, nil
}

func (s *BunStore) Update(ctx context.Context, ownerID, eventID string, patch EventPatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return fmt.Errorf("(*BunStore).Update: title is blank")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	var res sql.Result
	if err := s.retryWrite(ctx, func(ctx context.Context) error {
		query := s.db.NewUpdate().
			Model((*model.CalendarEvent)(nil)).
			Set("updated_at = ?", time.Now().UTC().Unix())
		if patch.Title != nil {
			query = query.Set("title = ?", *patch.Title)
		}
		if patch.Description != nil {
			query = query.Set("description = ?", *patch.Description)
		}
		if patch.StartDateUnix != nil {
			query = query.Set("start_date = ?", *patch.StartDateUnix)
		}
		if patch.EndDateUnix != nil {
			query = query.Set("end_date = ?", *patch.EndDateUnix)
		}
		if patch.AllDay != nil {
			query = query.Set("all_day = ?", *patch.AllDay)
		}
		if patch.Color != nil {
			query = query.Set("color = ?", *patch.Color)
		}
		var err error
		res, err = query.
			Where("id = ?", eventID).
			Where("owner_id = ?", ownerID).
			Exec(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("(*BunStore).Update: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportWrite(float64(time.Since(start).Microseconds()))

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("(*BunStore).Update: %w: %v", ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("(*BunStore).Update: %w", ErrEventNotFound)
	}

	return nil
}

func (s *BunStore) Delete(ctx context.Context, ownerID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	var res sql.Result
	if err := s.retryWrite(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.db.NewDelete().
			Model((*model.CalendarEvent)(nil)).
			Where("id = ?", eventID).
			Where("owner_id = ?", ownerID).
			Exec(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("(*BunStore).Delete: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportWrite(float64(time.Since(start).Microseconds()))

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("(*BunStore).Delete: %w: %v", ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("(*BunStore).Delete: %w", ErrEventNotFound)
	}

	return nil
}

func (s *BunStore) CreateSubscription(ctx context.Context, ownerID, name string) (*model.CalendarSubscription, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("(*BunStore).CreateSubscription: owner id is blank")
	}

	subscription := &model.CalendarSubscription{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: time.Now().UTC().Unix(),
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	if err := s.retryWrite(ctx, func(ctx context.Context) error {
		_, err := s.db.NewInsert().
			Model(subscription).
			Exec(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("(*BunStore).CreateSubscription: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportWrite(float64(time.Since(start).Microseconds()))

	return subscription, nil
}

func (s *BunStore) ListSubscriptionsByOwner(ctx context.Context, ownerID string) ([]model.CalendarSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	subscriptions := make([]model.CalendarSubscription, 0)
	if err := s.db.NewSelect().
		Model(&subscriptions).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*BunStore).ListSubscriptionsByOwner: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportRead(float64(time.Since(start).Microseconds()))

	return subscriptions, nil
}

func (s *BunStore) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	var res sql.Result
	if err := s.retryWrite(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.db.NewDelete().
			Model((*model.CalendarSubscription)(nil)).
			Where("id = ?", subscriptionID).
			Exec(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("(*BunStore).DeleteSubscription: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportWrite(float64(time.Since(start).Microseconds()))

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("(*BunStore).DeleteSubscription: %w: %v", ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("(*BunStore).DeleteSubscription: %w", ErrSubscriptionNotFound)
	}

	return nil
}

func (s *BunStore) SubscriptionByToken(ctx context.Context, token string) (*model.CalendarSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start := time.Now()
	subscription := new(model.CalendarSubscription)
	if err := s.db.NewSelect().
		Model(subscription).
		Where("token = ?", token).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("(*BunStore).SubscriptionByToken: %w", ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("(*BunStore).SubscriptionByToken: %w: %v", ErrStorage, err)
	}
	s.metrics.ReportRead(float64(time.Since(start).Microseconds()))

	return subscription, nil
}

// retryWrite runs op and retries exactly once when it fails for a reason
// other than the context being done.
func (s *BunStore) retryWrite(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}
	return op(ctx)
}
