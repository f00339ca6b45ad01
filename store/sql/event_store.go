package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-bridge/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DeliveryEventStore struct {
	db   *bun.DB
	repo repository.Repository[*deliveryEventRecord]
}

func NewDeliveryEventStore(db *bun.DB) (*DeliveryEventStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*deliveryEventRecord](db, deliveryEventHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid delivery event repository wiring: %w", err)
		}
	}
	return &DeliveryEventStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *DeliveryEventStore) Record(ctx context.Context, event core.DeliveryEvent) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: delivery event store is not configured")
	}
	id := strings.TrimSpace(event.ID)
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	record := &deliveryEventRecord{
		ID:        id,
		Channel:   event.Channel.String(),
		Dest:      int64(event.Dest),
		Nonce:     int64(event.Nonce),
		Outcome:   string(event.Result.Outcome),
		Reason:    event.Result.Reason,
		CreatedAt: occurredAt,
	}
	if tx, ok := txFromContext(ctx); ok {
		_, err := s.repo.CreateTx(ctx, tx, record)
		return err
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

// List returns the most recent delivery events, newest first. A dest filter
// of nil means all destinations; a non-positive limit applies
// core.DefaultDeliveryEventLimit.
func (s *DeliveryEventStore) List(ctx context.Context, dest *core.Destination, limit int) ([]core.DeliveryEvent, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: delivery event store is not configured")
	}
	if limit <= 0 {
		limit = core.DefaultDeliveryEventLimit
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(limit, 0),
	}
	if dest != nil {
		destValue := int64(*dest)
		selectors = append(selectors, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.dest = ?", destValue)
		}))
	}
	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}

	events := make([]core.DeliveryEvent, 0, len(records))
	for _, record := range records {
		channel, err := core.ParseChannelAddress(record.Channel)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: persisted delivery event %s channel %q: %w", record.ID, record.Channel, err)
		}
		events = append(events, core.DeliveryEvent{
			ID:      record.ID,
			Channel: channel,
			Dest:    core.Destination(record.Dest),
			Nonce:   uint64(record.Nonce),
			Result: core.DispatchResult{
				Outcome: core.DispatchOutcome(record.Outcome),
				Reason:  record.Reason,
			},
			OccurredAt: record.CreatedAt,
		})
	}
	return events, nil
}

var _ core.EventSink = (*DeliveryEventStore)(nil)
