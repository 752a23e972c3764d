package service

import (
	"context"
	"fmt"
	"time"
	"timetable-service/api"
	"timetable-service/internal/metrics"
	"timetable-service/internal/models"
	"timetable-service/internal/storage"
	"timetable-service/pkg/response"
)

// transient marks a mid-transaction failure that rolled the whole
// operation back and is worth retrying.
func transient(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, response.ErrTransient)
}

// Swap exchanges what occupies two grid coordinates for one teacher or
// one group. The slots move by delete+reinsert with coordinates
// exchanged; their teacher/group sets were already valid and the scope's
// own slot cannot double-book itself, so membership and exclusivity are
// not re-checked. A pure coordinate move leaves correspondence counts
// untouched.
func (s *Service) Swap(ctx context.Context, req *api.SwapRequest) error {
	const op = "service.Swap"

	scope := models.ScopeKind(req.Scope)

	lockKey := fmt.Sprintf("swap:%s:%s", req.Scope, req.ScopeID)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	source := models.Coordinate{Semester: req.Semester, Week: req.Source.Week, Day: req.Source.Day, Pair: req.Source.Pair}
	destination := models.Coordinate{Semester: req.Semester, Week: req.Destination.Week, Day: req.Destination.Day, Pair: req.Destination.Pair}

	// dropping a slot onto its own cell is a valid no-op
	if source == destination {
		return nil
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	sourceSlot, err := s.store.FindSlotByScope(ctx, tx, scope, req.ScopeID, source)
	if err != nil {
		_ = tx.Rollback()
		return transient(op, err)
	}

	destinationSlot, err := s.store.FindSlotByScope(ctx, tx, scope, req.ScopeID, destination)
	if err != nil {
		_ = tx.Rollback()
		return transient(op, err)
	}

	if sourceSlot == nil && destinationSlot == nil {
		if err := tx.Commit(); err != nil {
			return transient(op, err)
		}

		return nil
	}

	if err := s.moveSlot(ctx, tx, sourceSlot, destination); err != nil {
		_ = tx.Rollback()
		return transient(op, err)
	}

	if err := s.moveSlot(ctx, tx, destinationSlot, source); err != nil {
		_ = tx.Rollback()
		return transient(op, err)
	}

	if err := tx.Commit(); err != nil {
		return transient(op, err)
	}

	metrics.SwapsTotal.WithLabelValues(req.Scope).Inc()

	return nil
}

func (s *Service) moveSlot(ctx context.Context, tx storage.Tx, slot *models.Slot, target models.Coordinate) error {
	if slot == nil {
		return nil
	}

	if err := s.store.DeleteSlot(ctx, tx, slot.ID); err != nil {
		return err
	}

	moved := *slot
	moved.Coordinate = target

	if _, err := s.store.CreateSlot(ctx, tx, &moved); err != nil {
		return err
	}

	return nil
}
