package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/records"
)

var ErrEmptyPatch = errors.New("patch sets no fields")

// EventPublisher receives a message after every successful write.
type EventPublisher interface {
	PublishSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error
}

// notifier publishes change events. Publish failures are logged and dropped;
// the write they describe has already been committed.
type notifier struct {
	publisher EventPublisher
	logger    *log.Logger
}

func (n notifier) notify(ctx context.Context, category core.Category, op amqp.Operation, id int64, date *core.Date) {
	dateStr := ""
	if date != nil {
		dateStr = date.String()
	}
	log.NewStructuredLogger(n.logger).LogSnapshotChange(ctx, string(op), category.String(), id, dateStr)

	if n.publisher == nil {
		n.logger.DebugContext(ctx, "No event publisher configured, skipping change event",
			log.FieldCategory, category)
		return
	}
	msg := amqp.NewSnapshotChangedMessage(category, op, id, date)
	if err := n.publisher.PublishSnapshotChanged(ctx, msg); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish change event",
			log.NewFields().
				WithSnapshot(category.String(), id, dateStr).
				WithError(err, log.ErrorTypeNetwork).
				ToSlice()...)
	}
}

// CategoryService validates and writes one snapshot table.
type CategoryService[T core.Raw, P core.Patch[T]] struct {
	category core.Category
	table    records.SnapshotTable[T]
	notifier notifier
	// writeMu is shared across every table so that check-then-insert
	// sequences spanning tables see a stable store.
	writeMu *sync.Mutex
}

func newCategoryService[T core.Raw, P core.Patch[T]](category core.Category, table records.SnapshotTable[T], n notifier, mu *sync.Mutex) *CategoryService[T, P] {
	return &CategoryService[T, P]{category: category, table: table, notifier: n, writeMu: mu}
}

func (s *CategoryService[T, P]) Category() core.Category { return s.category }

// Create stores a snapshot for date. A date that already has a snapshot is
// rejected with records.ErrDuplicateDate.
func (s *CategoryService[T, P]) Create(ctx context.Context, date core.Date, raw T) (core.Snapshot[T], error) {
	if err := validateRow(date, raw); err != nil {
		return core.Snapshot[T]{}, err
	}

	s.writeMu.Lock()
	snap, err := s.createLocked(ctx, date, raw)
	s.writeMu.Unlock()
	if err != nil {
		return core.Snapshot[T]{}, err
	}

	s.notifier.notify(ctx, s.category, amqp.OpCreated, snap.ID, &snap.Date)
	return snap, nil
}

func (s *CategoryService[T, P]) createLocked(ctx context.Context, date core.Date, raw T) (core.Snapshot[T], error) {
	if err := s.checkFree(ctx, date); err != nil {
		return core.Snapshot[T]{}, err
	}
	snap, err := s.table.Insert(ctx, date, raw)
	if err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("insert %s: %w", s.category, err)
	}
	return snap, nil
}

func (s *CategoryService[T, P]) checkFree(ctx context.Context, date core.Date) error {
	_, found, err := s.table.FindByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("find %s by date: %w", s.category, err)
	}
	if found {
		return fmt.Errorf("%s on %s: %w", s.category, date, records.ErrDuplicateDate)
	}
	return nil
}

// Update applies patch to the snapshot with id. The patched row must still
// validate.
func (s *CategoryService[T, P]) Update(ctx context.Context, id int64, patch P) (core.Snapshot[T], error) {
	if patch.IsEmpty() {
		return core.Snapshot[T]{}, ErrEmptyPatch
	}
	snap, err := s.table.Patch(ctx, id, func(raw *T) error {
		patch.Apply(raw)
		return (*raw).Validate()
	})
	if err != nil {
		return core.Snapshot[T]{}, fmt.Errorf("update %s %d: %w", s.category, id, err)
	}

	s.notifier.notify(ctx, s.category, amqp.OpUpdated, snap.ID, &snap.Date)
	return snap, nil
}

func (s *CategoryService[T, P]) Delete(ctx context.Context, id int64) error {
	if err := s.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.category, id, err)
	}
	s.notifier.notify(ctx, s.category, amqp.OpDeleted, id, nil)
	return nil
}

// patchAt patches the row stored at exactly date. It reports false when no
// row exists there.
func (s *CategoryService[T, P]) patchAt(ctx context.Context, date core.Date, patch P) (bool, error) {
	snap, found, err := s.table.FindByDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("find %s by date: %w", s.category, err)
	}
	if !found {
		return false, nil
	}
	if _, err := s.table.Patch(ctx, snap.ID, func(raw *T) error {
		patch.Apply(raw)
		return (*raw).Validate()
	}); err != nil {
		return false, fmt.Errorf("update %s %d: %w", s.category, snap.ID, err)
	}
	return true, nil
}

func validateRow(date core.Date, raw core.Raw) error {
	if err := date.Validate(); err != nil {
		return err
	}
	return raw.Validate()
}
