package service

import (
	"context"
	"fmt"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"
)

// validateMembership checks that every teacher and group of a slot is
// part of the subject's staffing plan. Read-only, no side effects.
func (s *Service) validateMembership(ctx context.Context, subjectID string, teacherIDs, groupIDs []string) error {
	const op = "service.validateMembership"

	curriculum, err := s.store.GetCurriculum(ctx, nil, subjectID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	assignedTeachers := make(map[string]struct{}, len(curriculum.Teachers))
	for _, e := range curriculum.Teachers {
		assignedTeachers[e.MemberID] = struct{}{}
	}

	for _, id := range teacherIDs {
		if _, ok := assignedTeachers[id]; !ok {
			return fmt.Errorf("%s: %w", op,
				response.PolicyError("teacher %q is not in the staffing plan of subject %q",
					s.teacherLabel(ctx, id), curriculum.SubjectName))
		}
	}

	assignedGroups := make(map[string]struct{}, len(curriculum.Groups))
	for _, e := range curriculum.Groups {
		assignedGroups[e.MemberID] = struct{}{}
	}

	for _, id := range groupIDs {
		if _, ok := assignedGroups[id]; !ok {
			return fmt.Errorf("%s: %w", op,
				response.PolicyError("group %q is not in the staffing plan of subject %q",
					s.groupLabel(ctx, id), curriculum.SubjectName))
		}
	}

	return nil
}

// detectTeacherConflict enforces teacher exclusivity at a grid
// coordinate. Groups are deliberately not checked: one group may sit in
// several parallel sub-group slots at the same coordinate.
func (s *Service) detectTeacherConflict(ctx context.Context, coord models.Coordinate, teacherIDs []string, excludeSlotID string) error {
	const op = "service.detectTeacherConflict"

	conflict, err := s.store.FindTeacherConflict(ctx, coord, teacherIDs, excludeSlotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if conflict == nil {
		return nil
	}

	busy := make(map[string]struct{}, len(conflict.TeacherIDs))
	for _, id := range conflict.TeacherIDs {
		busy[id] = struct{}{}
	}

	for _, id := range teacherIDs {
		if _, ok := busy[id]; ok {
			return fmt.Errorf("%s: %w", op,
				response.PolicyError("teacher %q is already scheduled at semester %d, week %d, day %d, pair %d",
					s.teacherLabel(ctx, id), coord.Semester, coord.Week, coord.Day, coord.Pair))
		}
	}

	return fmt.Errorf("%s: %w", op,
		response.PolicyError("teacher is busy at semester %d, week %d, day %d, pair %d",
			coord.Semester, coord.Week, coord.Day, coord.Pair))
}
