package service

import (
	"context"
	"fmt"
	"timetable-service/api"
	"timetable-service/internal/metrics"
	"timetable-service/internal/models"
)

func slotFromRequest(req *api.SlotRequest) *models.Slot {
	return &models.Slot{
		SubjectID:  req.SubjectID,
		TeacherIDs: req.TeacherIDs,
		GroupIDs:   req.GroupIDs,
		Coordinate: models.Coordinate{
			Semester: req.Semester,
			Week:     req.Week,
			Day:      req.Day,
			Pair:     req.Pair,
		},
		LessonType:  models.LessonType(req.LessonType),
		VisitFormat: models.VisitFormat(req.VisitFormat),
		Audience:    req.Audience,
	}
}

func slotResponse(slot *models.Slot) *api.SlotResponse {
	return &api.SlotResponse{
		ID:          slot.ID,
		SubjectID:   slot.SubjectID,
		TeacherIDs:  slot.TeacherIDs,
		GroupIDs:    slot.GroupIDs,
		Semester:    slot.Semester,
		Week:        slot.Week,
		Day:         slot.Day,
		Pair:        slot.Pair,
		LessonType:  string(slot.LessonType),
		VisitFormat: string(slot.VisitFormat),
		Audience:    slot.Audience,
	}
}

// CreateSlot places a new pair on the grid: staffing-plan membership and
// teacher exclusivity are checked first, the insert and the
// correspondence recalculation commit together.
func (s *Service) CreateSlot(ctx context.Context, req *api.SlotRequest) (*api.SlotResponse, error) {
	const op = "service.CreateSlot"

	if err := s.validateMembership(ctx, req.SubjectID, req.TeacherIDs, req.GroupIDs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slot := slotFromRequest(req)

	if err := s.detectTeacherConflict(ctx, slot.Coordinate, slot.TeacherIDs, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id, err := s.store.CreateSlot(ctx, tx, slot)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: create slot: %w", op, err)
	}

	if err := s.recalcCorrespondence(ctx, tx, slot.SubjectID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	metrics.SlotMutationsTotal.WithLabelValues("create").Inc()

	slot.ID = id

	return slotResponse(slot), nil
}

// EditSlot replaces a slot wholesale. The new coordinate and teacher set
// are validated with the slot itself excluded from the exclusivity
// check; when the subject changes, both subjects are recalculated.
func (s *Service) EditSlot(ctx context.Context, id string, req *api.SlotRequest) error {
	const op = "service.EditSlot"

	existing, err := s.store.GetSlot(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validateMembership(ctx, req.SubjectID, req.TeacherIDs, req.GroupIDs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	slot := slotFromRequest(req)
	slot.ID = id

	if err := s.detectTeacherConflict(ctx, slot.Coordinate, slot.TeacherIDs, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
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

	if err := s.store.UpdateSlot(ctx, tx, slot); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: update slot: %w", op, err)
	}

	if err := s.recalcCorrespondence(ctx, tx, existing.SubjectID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if slot.SubjectID != existing.SubjectID {
		if err := s.recalcCorrespondence(ctx, tx, slot.SubjectID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	metrics.SlotMutationsTotal.WithLabelValues("edit").Inc()

	return nil
}

func (s *Service) DeleteSlot(ctx context.Context, id string) error {
	const op = "service.DeleteSlot"

	existing, err := s.store.GetSlot(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
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

	if err := s.store.DeleteSlot(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: delete slot: %w", op, err)
	}

	if err := s.recalcCorrespondence(ctx, tx, existing.SubjectID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	metrics.SlotMutationsTotal.WithLabelValues("delete").Inc()

	return nil
}

func (s *Service) ListSlots(ctx context.Context, semester int, teacherID, groupID *string) ([]*api.SlotResponse, error) {
	const op = "service.ListSlots"

	slots, err := s.store.ListSlots(ctx, semester, teacherID, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, slotResponse(slot))
	}

	return result, nil
}

func (s *Service) GetSlotDetail(ctx context.Context, id string) (*api.SlotDetailResponse, error) {
	const op = "service.GetSlotDetail"

	slot, err := s.store.GetSlot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail := &api.SlotDetailResponse{SlotResponse: *slotResponse(slot)}

	if curriculum, err := s.store.GetCurriculum(ctx, nil, slot.SubjectID); err == nil {
		detail.SubjectName = curriculum.SubjectName
	}

	for _, teacherID := range slot.TeacherIDs {
		detail.TeacherNames = append(detail.TeacherNames, s.teacherLabel(ctx, teacherID))
	}
	for _, groupID := range slot.GroupIDs {
		detail.GroupCodes = append(detail.GroupCodes, s.groupLabel(ctx, groupID))
	}

	return detail, nil
}
