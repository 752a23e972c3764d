package service

import (
	"context"
	"fmt"
	"timetable-service/api"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"
)

func teacherResponse(teacher *models.Teacher) *api.TeacherResponse {
	return &api.TeacherResponse{
		ID:         teacher.ID,
		FullName:   teacher.FullName,
		Department: teacher.Department,
		Post:       string(teacher.Post),
	}
}

func (s *Service) CreateTeacher(ctx context.Context, req *api.TeacherRequest) (*api.TeacherResponse, error) {
	const op = "service.CreateTeacher"

	teacher := &models.Teacher{
		FullName:   req.FullName,
		Department: req.Department,
		Post:       models.TeacherPost(req.Post),
	}

	id, err := s.store.CreateTeacher(ctx, teacher)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	teacher.ID = id

	return teacherResponse(teacher), nil
}

func (s *Service) GetTeacher(ctx context.Context, id string) (*api.TeacherResponse, error) {
	const op = "service.GetTeacher"

	teacher, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return teacherResponse(teacher), nil
}

func (s *Service) ListTeachers(ctx context.Context) ([]*api.TeacherResponse, error) {
	const op = "service.ListTeachers"

	teachers, err := s.store.ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		result = append(result, teacherResponse(teacher))
	}

	return result, nil
}

// DeleteTeacher refuses while the teacher sits in any staffing plan or
// schedule slot.
func (s *Service) DeleteTeacher(ctx context.Context, id string) error {
	const op = "service.DeleteTeacher"

	teacher, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := s.store.CountPlanRefs(ctx, models.ScopeTeacher, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n > 0 {
		return fmt.Errorf("%s: %w", op,
			response.PolicyError("teacher %q is part of %d curriculum staffing plans", teacher.FullName, n))
	}

	if n, err := s.store.CountSlotsByMember(ctx, models.ScopeTeacher, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n > 0 {
		return fmt.Errorf("%s: %w", op,
			response.PolicyError("teacher %q is referenced by %d schedule slots", teacher.FullName, n))
	}

	if err := s.store.DeleteTeacher(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
