package service

import (
	"context"
	"fmt"
	"timetable-service/api"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"
)

func planEntriesFromRequest(reqs []api.PlanEntryRequest) []models.PlanEntry {
	entries := make([]models.PlanEntry, 0, len(reqs))
	for _, r := range reqs {
		entries = append(entries, models.PlanEntry{
			MemberID:          r.ID,
			PlannedLectures:   r.PlannedLectures,
			PlannedPracticals: r.PlannedPracticals,
			PlannedLabs:       r.PlannedLabs,
		})
	}

	return entries
}

func curriculumMatches(curriculum *models.Curriculum) bool {
	for _, e := range curriculum.Teachers {
		if !e.Matches() {
			return false
		}
	}
	for _, e := range curriculum.Groups {
		if !e.Matches() {
			return false
		}
	}

	return true
}

// CreateCurriculum declares a subject staffing plan. Scheduled hours
// start at zero; the correspondence flag is derived, never taken from
// the caller.
func (s *Service) CreateCurriculum(ctx context.Context, req *api.CurriculumRequest) (*api.CurriculumResponse, error) {
	const op = "service.CreateCurriculum"

	for _, e := range req.Teachers {
		if _, err := s.store.GetTeacher(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("%s: teacher %s: %w", op, e.ID, err)
		}
	}
	for _, e := range req.Groups {
		if _, err := s.store.GetGroup(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("%s: group %s: %w", op, e.ID, err)
		}
	}

	curriculum := &models.Curriculum{
		SubjectName: req.SubjectName,
		Teachers:    planEntriesFromRequest(req.Teachers),
		Groups:      planEntriesFromRequest(req.Groups),
	}
	curriculum.Correspondence = curriculumMatches(curriculum)

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

	id, err := s.store.CreateCurriculum(ctx, tx, curriculum)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetCurriculum(ctx, id)
}

func (s *Service) GetCurriculum(ctx context.Context, id string) (*api.CurriculumResponse, error) {
	const op = "service.GetCurriculum"

	curriculum, err := s.store.GetCurriculum(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.curriculumResponse(ctx, curriculum), nil
}

func (s *Service) curriculumResponse(ctx context.Context, curriculum *models.Curriculum) *api.CurriculumResponse {
	resp := &api.CurriculumResponse{
		ID:             curriculum.ID,
		SubjectName:    curriculum.SubjectName,
		Teachers:       make([]api.PlanEntryResponse, 0, len(curriculum.Teachers)),
		Groups:         make([]api.PlanEntryResponse, 0, len(curriculum.Groups)),
		Correspondence: curriculum.Correspondence,
	}

	for _, e := range curriculum.Teachers {
		resp.Teachers = append(resp.Teachers, planEntryResponse(e, s.teacherLabel(ctx, e.MemberID)))
	}
	for _, e := range curriculum.Groups {
		resp.Groups = append(resp.Groups, planEntryResponse(e, s.groupLabel(ctx, e.MemberID)))
	}

	return resp
}

func planEntryResponse(e models.PlanEntry, name string) api.PlanEntryResponse {
	return api.PlanEntryResponse{
		ID:                  e.MemberID,
		Name:                name,
		PlannedLectures:     e.PlannedLectures,
		PlannedPracticals:   e.PlannedPracticals,
		PlannedLabs:         e.PlannedLabs,
		ScheduledLectures:   e.ScheduledLectures,
		ScheduledPracticals: e.ScheduledPracticals,
		ScheduledLabs:       e.ScheduledLabs,
	}
}

func (s *Service) ListCurricula(ctx context.Context) ([]*api.CurriculumResponse, error) {
	const op = "service.ListCurricula"

	curricula, err := s.store.ListCurricula(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.CurriculumResponse, 0, len(curricula))
	for _, curriculum := range curricula {
		result = append(result, s.curriculumResponse(ctx, curriculum))
	}

	return result, nil
}

// UpdateCurriculum edits the subject name, planned hours and
// membership. A teacher or group may leave the plan only when all of
// its scheduled hours for the subject are zero. Scheduled counts of
// retained members survive the update and the flag is re-derived
// afterwards.
func (s *Service) UpdateCurriculum(ctx context.Context, id string, req *api.CurriculumRequest) (*api.CurriculumResponse, error) {
	const op = "service.UpdateCurriculum"

	existing, err := s.store.GetCurriculum(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	teachers := planEntriesFromRequest(req.Teachers)
	groups := planEntriesFromRequest(req.Groups)

	if err := s.checkRemovals(ctx, existing, models.ScopeTeacher, teachers); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.checkRemovals(ctx, existing, models.ScopeGroup, groups); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range teachers {
		if _, err := s.store.GetTeacher(ctx, e.MemberID); err != nil {
			return nil, fmt.Errorf("%s: teacher %s: %w", op, e.MemberID, err)
		}
	}
	for _, e := range groups {
		if _, err := s.store.GetGroup(ctx, e.MemberID); err != nil {
			return nil, fmt.Errorf("%s: group %s: %w", op, e.MemberID, err)
		}
	}

	updated := &models.Curriculum{
		ID:          id,
		SubjectName: req.SubjectName,
		Teachers:    carryScheduled(teachers, existing.Teachers),
		Groups:      carryScheduled(groups, existing.Groups),
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

	if req.SubjectName != existing.SubjectName {
		if err := s.store.UpdateSubjectName(ctx, tx, id, req.SubjectName); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.store.ReplacePlan(ctx, tx, updated); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.recalcCorrespondence(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetCurriculum(ctx, id)
}

// checkRemovals guards plan membership: a member with any scheduled
// hours cannot be dropped until its slots are gone.
func (s *Service) checkRemovals(ctx context.Context, existing *models.Curriculum, scope models.ScopeKind, next []models.PlanEntry) error {
	kept := make(map[string]struct{}, len(next))
	for _, e := range next {
		kept[e.MemberID] = struct{}{}
	}

	entries := existing.Teachers
	if scope == models.ScopeGroup {
		entries = existing.Groups
	}

	for _, e := range entries {
		if _, ok := kept[e.MemberID]; ok {
			continue
		}

		if e.ScheduledLectures != 0 || e.ScheduledPracticals != 0 || e.ScheduledLabs != 0 {
			label := s.teacherLabel(ctx, e.MemberID)
			if scope == models.ScopeGroup {
				label = s.groupLabel(ctx, e.MemberID)
			}

			return response.PolicyError("%s %q still has scheduled hours for subject %q and cannot leave its staffing plan",
				scope, label, existing.SubjectName)
		}
	}

	return nil
}

// carryScheduled keeps derived counts of members that stay in the plan.
func carryScheduled(next, previous []models.PlanEntry) []models.PlanEntry {
	prior := make(map[string]models.PlanEntry, len(previous))
	for _, e := range previous {
		prior[e.MemberID] = e
	}

	for i, e := range next {
		if p, ok := prior[e.MemberID]; ok {
			next[i].ScheduledLectures = p.ScheduledLectures
			next[i].ScheduledPracticals = p.ScheduledPracticals
			next[i].ScheduledLabs = p.ScheduledLabs
		}
	}

	return next
}

// DeleteCurriculum refuses while any schedule slot still references the
// subject.
func (s *Service) DeleteCurriculum(ctx context.Context, id string) error {
	const op = "service.DeleteCurriculum"

	curriculum, err := s.store.GetCurriculum(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.store.CountSlotsBySubject(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return fmt.Errorf("%s: %w", op,
			response.PolicyError("subject %q is referenced by %d schedule slots", curriculum.SubjectName, n))
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

	if err := s.store.DeleteCurriculum(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
