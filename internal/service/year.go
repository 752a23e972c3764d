package service

import (
	"context"
	"fmt"
	"time"
	"timetable-service/internal/groupcode"
	"timetable-service/internal/metrics"
	"timetable-service/internal/storage"
	"timetable-service/pkg/response"
)

type Direction string

const (
	DirectionForward  Direction = "FORWARD"
	DirectionBackward Direction = "BACKWARD"
)

const yearTransitionLockKey = "year_transition"

// ApplyYearTransition renumbers the whole group roster by one academic
// year, forward or backward, in a single all-or-nothing transaction.
// Parseable group codes get their course digit shifted; groups whose new
// course leaves [1,4] are retired together with every slot that
// references them. Codes outside the grammar pass through untouched.
//
// The batch does not re-run membership, conflict or correspondence
// checks: renaming keeps ids stable, and retired groups leave their
// subjects' scheduled counters to the next recalculation.
func (s *Service) ApplyYearTransition(ctx context.Context, direction Direction) error {
	const op = "service.ApplyYearTransition"

	var delta int

	switch direction {
	case DirectionForward:
		delta = 1
	case DirectionBackward:
		delta = -1
	default:
		return fmt.Errorf("%s: unknown direction %q: %w", op, direction, response.ErrBadRequest)
	}

	locked, err := s.locker.Lock(ctx, yearTransitionLockKey, time.Minute)
	if err != nil {
		return fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, yearTransitionLockKey)
	}()

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

	groups, err := s.store.ListGroups(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return transient(op, err)
	}

	for _, group := range groups {
		code, ok := groupcode.Parse(group.Code)
		if !ok {
			continue
		}

		shifted, ok := code.Shift(delta)
		if !ok {
			if err := s.retireGroup(ctx, tx, group.ID); err != nil {
				_ = tx.Rollback()
				return transient(op, err)
			}

			continue
		}

		if err := s.store.UpdateGroupCode(ctx, tx, group.ID, shifted.String()); err != nil {
			_ = tx.Rollback()
			return transient(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return transient(op, err)
	}

	metrics.YearTransitionsTotal.WithLabelValues(string(direction)).Inc()

	return nil
}

// retireGroup removes a graduated (or pre-first-year) group from the
// active timetable: its slots, its staffing-plan rows, then the group
// itself.
func (s *Service) retireGroup(ctx context.Context, tx storage.Tx, groupID string) error {
	if err := s.store.DeleteSlotsByGroup(ctx, tx, groupID); err != nil {
		return err
	}

	if err := s.store.DeletePlanRefsByGroup(ctx, tx, groupID); err != nil {
		return err
	}

	return s.store.DeleteGroup(ctx, tx, groupID)
}
