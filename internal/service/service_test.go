package service

import (
	"context"
	"fmt"
	"time"
	"timetable-service/api"
	"timetable-service/internal/models"
	"timetable-service/internal/storage"
	"timetable-service/pkg/response"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit() error   { t.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rollbacks++; return nil }

type fakeLocker struct {
	busy bool
	held map[string]int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]int{}}
}

func (l *fakeLocker) Lock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.busy {
		return false, nil
	}
	l.held[key]++
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key string) error {
	delete(l.held, key)
	return nil
}

// fakeStore keeps everything in maps and mirrors the error mapping of
// the postgres layer: missing rows come back as ErrNotFound, a duplicate
// subject name as a policy violation.
type fakeStore struct {
	nextID    int
	groups    map[string]*models.Group
	teachers  map[string]*models.Teacher
	curricula map[string]*models.Curriculum
	slots     map[string]*models.Slot
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:    map[string]*models.Group{},
		teachers:  map[string]*models.Teacher{},
		curricula: map[string]*models.Curriculum{},
		slots:     map[string]*models.Slot{},
	}
}

func newTestService() (*Service, *fakeStore, *fakeLocker) {
	store := newFakeStore()
	locker := newFakeLocker()
	return NewService(store, locker), store, locker
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) BeginTx(context.Context) (storage.Tx, error) {
	return &fakeTx{}, nil
}

// seeding shortcuts for tests

func (f *fakeStore) addTeacher(name string) string {
	id := f.id("t")
	f.teachers[id] = &models.Teacher{ID: id, FullName: name, Department: "AMCS", Post: models.PostSeniorLecturer}
	return id
}

func (f *fakeStore) addGroup(code string) string {
	id := f.id("g")
	f.groups[id] = &models.Group{ID: id, Code: code, Faculty: "FCST"}
	return id
}

func (f *fakeStore) addCurriculum(subject string, teachers, groups []models.PlanEntry) string {
	id := f.id("c")
	f.curricula[id] = &models.Curriculum{
		ID:          id,
		SubjectName: subject,
		Teachers:    append([]models.PlanEntry(nil), teachers...),
		Groups:      append([]models.PlanEntry(nil), groups...),
	}
	return id
}

func planOf(member string, lectures, practicals, labs int) models.PlanEntry {
	return models.PlanEntry{
		MemberID:          member,
		PlannedLectures:   lectures,
		PlannedPracticals: practicals,
		PlannedLabs:       labs,
	}
}

// Groups

func (f *fakeStore) CreateGroup(_ context.Context, group *models.Group) (string, error) {
	id := f.id("g")
	cp := *group
	cp.ID = id
	f.groups[id] = &cp
	return id, nil
}

func (f *fakeStore) GetGroup(_ context.Context, id string) (*models.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *group
	return &cp, nil
}

func (f *fakeStore) ListGroups(_ context.Context, _ storage.Tx) ([]*models.Group, error) {
	result := make([]*models.Group, 0, len(f.groups))
	for _, group := range f.groups {
		cp := *group
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeStore) UpdateGroupCode(_ context.Context, _ storage.Tx, id, code string) error {
	group, ok := f.groups[id]
	if !ok {
		return response.ErrNotFound
	}
	group.Code = code
	return nil
}

func (f *fakeStore) DeleteGroup(_ context.Context, _ storage.Tx, id string) error {
	if _, ok := f.groups[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeStore) DeleteSlotsByGroup(_ context.Context, _ storage.Tx, groupID string) error {
	for id, slot := range f.slots {
		if contains(slot.GroupIDs, groupID) {
			delete(f.slots, id)
		}
	}
	return nil
}

func (f *fakeStore) DeletePlanRefsByGroup(_ context.Context, _ storage.Tx, groupID string) error {
	for _, curriculum := range f.curricula {
		kept := curriculum.Groups[:0]
		for _, e := range curriculum.Groups {
			if e.MemberID != groupID {
				kept = append(kept, e)
			}
		}
		curriculum.Groups = kept
	}
	return nil
}

// Teachers

func (f *fakeStore) CreateTeacher(_ context.Context, teacher *models.Teacher) (string, error) {
	id := f.id("t")
	cp := *teacher
	cp.ID = id
	f.teachers[id] = &cp
	return id, nil
}

func (f *fakeStore) GetTeacher(_ context.Context, id string) (*models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *teacher
	return &cp, nil
}

func (f *fakeStore) ListTeachers(_ context.Context) ([]*models.Teacher, error) {
	result := make([]*models.Teacher, 0, len(f.teachers))
	for _, teacher := range f.teachers {
		cp := *teacher
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeStore) DeleteTeacher(_ context.Context, id string) error {
	if _, ok := f.teachers[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.teachers, id)
	return nil
}

// Referential guards

func (f *fakeStore) CountPlanRefs(_ context.Context, scope models.ScopeKind, memberID string) (int, error) {
	n := 0
	for _, curriculum := range f.curricula {
		entries := curriculum.Teachers
		if scope == models.ScopeGroup {
			entries = curriculum.Groups
		}
		for _, e := range entries {
			if e.MemberID == memberID {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeStore) CountSlotsByMember(_ context.Context, scope models.ScopeKind, memberID string) (int, error) {
	n := 0
	for _, slot := range f.slots {
		ids := slot.TeacherIDs
		if scope == models.ScopeGroup {
			ids = slot.GroupIDs
		}
		if contains(ids, memberID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountSlotsBySubject(_ context.Context, subjectID string) (int, error) {
	n := 0
	for _, slot := range f.slots {
		if slot.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

// Curricula

func (f *fakeStore) CreateCurriculum(_ context.Context, _ storage.Tx, curriculum *models.Curriculum) (string, error) {
	for _, existing := range f.curricula {
		if existing.SubjectName == curriculum.SubjectName {
			return "", response.PolicyError("subject %q already exists", curriculum.SubjectName)
		}
	}
	id := f.id("c")
	cp := copyCurriculum(curriculum)
	cp.ID = id
	f.curricula[id] = cp
	return id, nil
}

func (f *fakeStore) GetCurriculum(_ context.Context, _ storage.Tx, id string) (*models.Curriculum, error) {
	curriculum, ok := f.curricula[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return copyCurriculum(curriculum), nil
}

func (f *fakeStore) ListCurricula(_ context.Context) ([]*models.Curriculum, error) {
	result := make([]*models.Curriculum, 0, len(f.curricula))
	for _, curriculum := range f.curricula {
		result = append(result, copyCurriculum(curriculum))
	}
	return result, nil
}

func (f *fakeStore) UpdateSubjectName(_ context.Context, _ storage.Tx, id, name string) error {
	curriculum, ok := f.curricula[id]
	if !ok {
		return response.ErrNotFound
	}
	for _, existing := range f.curricula {
		if existing.ID != id && existing.SubjectName == name {
			return response.PolicyError("subject %q already exists", name)
		}
	}
	curriculum.SubjectName = name
	return nil
}

func (f *fakeStore) ReplacePlan(_ context.Context, _ storage.Tx, curriculum *models.Curriculum) error {
	existing, ok := f.curricula[curriculum.ID]
	if !ok {
		return response.ErrNotFound
	}
	existing.Teachers = append([]models.PlanEntry(nil), curriculum.Teachers...)
	existing.Groups = append([]models.PlanEntry(nil), curriculum.Groups...)
	return nil
}

func (f *fakeStore) DeleteCurriculum(_ context.Context, _ storage.Tx, id string) error {
	if _, ok := f.curricula[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.curricula, id)
	return nil
}

func (f *fakeStore) CountScheduled(_ context.Context, _ storage.Tx, subjectID string, scope models.ScopeKind, memberID string) (map[models.LessonType]int, error) {
	counts := map[models.LessonType]int{}
	for _, slot := range f.slots {
		if slot.SubjectID != subjectID {
			continue
		}
		ids := slot.TeacherIDs
		if scope == models.ScopeGroup {
			ids = slot.GroupIDs
		}
		if contains(ids, memberID) {
			counts[slot.LessonType]++
		}
	}
	return counts, nil
}

func (f *fakeStore) UpdateScheduledHours(_ context.Context, _ storage.Tx, curriculumID string, scope models.ScopeKind, entry models.PlanEntry) error {
	curriculum, ok := f.curricula[curriculumID]
	if !ok {
		return response.ErrNotFound
	}
	entries := curriculum.Teachers
	if scope == models.ScopeGroup {
		entries = curriculum.Groups
	}
	for i := range entries {
		if entries[i].MemberID == entry.MemberID {
			entries[i].ScheduledLectures = entry.ScheduledLectures
			entries[i].ScheduledPracticals = entry.ScheduledPracticals
			entries[i].ScheduledLabs = entry.ScheduledLabs
			return nil
		}
	}
	return response.ErrNotFound
}

func (f *fakeStore) SetCorrespondence(_ context.Context, _ storage.Tx, curriculumID string, ok bool) error {
	curriculum, found := f.curricula[curriculumID]
	if !found {
		return response.ErrNotFound
	}
	curriculum.Correspondence = ok
	return nil
}

// Slots

func (f *fakeStore) CreateSlot(_ context.Context, _ storage.Tx, slot *models.Slot) (string, error) {
	id := f.id("s")
	cp := copySlot(slot)
	cp.ID = id
	f.slots[id] = cp
	return id, nil
}

func (f *fakeStore) GetSlot(_ context.Context, id string) (*models.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return copySlot(slot), nil
}

func (f *fakeStore) ListSlots(_ context.Context, semester int, teacherID, groupID *string) ([]*models.Slot, error) {
	var result []*models.Slot
	for _, slot := range f.slots {
		if slot.Semester != semester {
			continue
		}
		if teacherID != nil && !contains(slot.TeacherIDs, *teacherID) {
			continue
		}
		if groupID != nil && !contains(slot.GroupIDs, *groupID) {
			continue
		}
		result = append(result, copySlot(slot))
	}
	return result, nil
}

func (f *fakeStore) UpdateSlot(_ context.Context, _ storage.Tx, slot *models.Slot) error {
	if _, ok := f.slots[slot.ID]; !ok {
		return response.ErrNotFound
	}
	f.slots[slot.ID] = copySlot(slot)
	return nil
}

func (f *fakeStore) DeleteSlot(_ context.Context, _ storage.Tx, id string) error {
	if _, ok := f.slots[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeStore) FindTeacherConflict(_ context.Context, coord models.Coordinate, teacherIDs []string, excludeSlotID string) (*models.Slot, error) {
	for _, slot := range f.slots {
		if slot.ID == excludeSlotID || slot.Coordinate != coord {
			continue
		}
		for _, id := range teacherIDs {
			if contains(slot.TeacherIDs, id) {
				return copySlot(slot), nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) FindSlotByScope(_ context.Context, _ storage.Tx, scope models.ScopeKind, memberID string, coord models.Coordinate) (*models.Slot, error) {
	for _, slot := range f.slots {
		if slot.Coordinate != coord {
			continue
		}
		ids := slot.TeacherIDs
		if scope == models.ScopeGroup {
			ids = slot.GroupIDs
		}
		if contains(ids, memberID) {
			return copySlot(slot), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) slotAt(scope models.ScopeKind, memberID string, coord models.Coordinate) *models.Slot {
	slot, _ := f.FindSlotByScope(context.Background(), nil, scope, memberID, coord)
	return slot
}

func copyCurriculum(c *models.Curriculum) *models.Curriculum {
	cp := *c
	cp.Teachers = append([]models.PlanEntry(nil), c.Teachers...)
	cp.Groups = append([]models.PlanEntry(nil), c.Groups...)
	return &cp
}

func copySlot(s *models.Slot) *models.Slot {
	cp := *s
	cp.TeacherIDs = append([]string(nil), s.TeacherIDs...)
	cp.GroupIDs = append([]string(nil), s.GroupIDs...)
	return &cp
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func lectureSlotRequest(subjectID, teacherID, groupID string, week, day, pair int) *api.SlotRequest {
	return &api.SlotRequest{
		SubjectID:   subjectID,
		TeacherIDs:  []string{teacherID},
		GroupIDs:    []string{groupID},
		Semester:    1,
		Week:        week,
		Day:         day,
		Pair:        pair,
		LessonType:  string(models.LessonLecture),
		VisitFormat: string(models.VisitOffline),
	}
}
