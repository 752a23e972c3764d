package service

import (
	"context"
	"fmt"
	"timetable-service/internal/models"
	"timetable-service/internal/storage"
)

// recalcCorrespondence is the single writer of scheduled hours and the
// correspondence flag. It recomputes everything from current slots
// instead of patching counters incrementally, so re-running it is always
// safe and always converges.
func (s *Service) recalcCorrespondence(ctx context.Context, tx storage.Tx, subjectID string) error {
	const op = "service.recalcCorrespondence"

	curriculum, err := s.store.GetCurriculum(ctx, tx, subjectID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	matches := true

	for _, scope := range []models.ScopeKind{models.ScopeTeacher, models.ScopeGroup} {
		entries := curriculum.Teachers
		if scope == models.ScopeGroup {
			entries = curriculum.Groups
		}

		for _, entry := range entries {
			counts, err := s.store.CountScheduled(ctx, tx, subjectID, scope, entry.MemberID)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			entry.ScheduledLectures = counts[models.LessonLecture]
			entry.ScheduledPracticals = counts[models.LessonPractice]
			entry.ScheduledLabs = counts[models.LessonLaboratory]

			if err := s.store.UpdateScheduledHours(ctx, tx, curriculum.ID, scope, entry); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			if !entry.Matches() {
				matches = false
			}
		}
	}

	if err := s.store.SetCorrespondence(ctx, tx, curriculum.ID, matches); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RecalculateCorrespondence re-runs the tracker for one subject in its
// own transaction. Safe to call at any time; stale counters are a
// visible inconsistency, not a data-loss risk.
func (s *Service) RecalculateCorrespondence(ctx context.Context, subjectID string) error {
	const op = "service.RecalculateCorrespondence"

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

	if err := s.recalcCorrespondence(ctx, tx, subjectID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
