package service

import (
	"context"
	"fmt"
	"timetable-service/api"
	"timetable-service/internal/groupcode"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"
)

func groupResponse(group *models.Group) *api.GroupResponse {
	return &api.GroupResponse{
		ID:      group.ID,
		Code:    group.Code,
		Faculty: group.Faculty,
	}
}

// CreateGroup checks the code against the group-code grammar so that the
// year-transition batch can renumber it later.
func (s *Service) CreateGroup(ctx context.Context, req *api.GroupRequest) (*api.GroupResponse, error) {
	const op = "service.CreateGroup"

	if _, ok := groupcode.Parse(req.Code); !ok {
		return nil, fmt.Errorf("%s: %w", op,
			response.PolicyError("group code %q does not match the expected format", req.Code))
	}

	group := &models.Group{Code: req.Code, Faculty: req.Faculty}

	id, err := s.store.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	group.ID = id

	return groupResponse(group), nil
}

func (s *Service) GetGroup(ctx context.Context, id string) (*api.GroupResponse, error) {
	const op = "service.GetGroup"

	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return groupResponse(group), nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*api.GroupResponse, error) {
	const op = "service.ListGroups"

	groups, err := s.store.ListGroups(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.GroupResponse, 0, len(groups))
	for _, group := range groups {
		result = append(result, groupResponse(group))
	}

	return result, nil
}

// DeleteGroup refuses while the group sits in any staffing plan or
// schedule slot.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	const op = "service.DeleteGroup"

	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := s.store.CountPlanRefs(ctx, models.ScopeGroup, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n > 0 {
		return fmt.Errorf("%s: %w", op,
			response.PolicyError("group %q is part of %d curriculum staffing plans", group.Code, n))
	}

	if n, err := s.store.CountSlotsByMember(ctx, models.ScopeGroup, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n > 0 {
		return fmt.Errorf("%s: %w", op,
			response.PolicyError("group %q is referenced by %d schedule slots", group.Code, n))
	}

	if err := s.store.DeleteGroup(ctx, nil, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
