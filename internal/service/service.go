package service

import (
	"context"
	"timetable-service/internal/lock"
	"timetable-service/internal/models"
	"timetable-service/internal/storage"
)

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

type Store interface {
	BeginTx(ctx context.Context) (storage.Tx, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.Group) (string, error)
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroups(ctx context.Context, tx storage.Tx) ([]*models.Group, error)
	UpdateGroupCode(ctx context.Context, tx storage.Tx, id, code string) error
	DeleteGroup(ctx context.Context, tx storage.Tx, id string) error
	DeleteSlotsByGroup(ctx context.Context, tx storage.Tx, groupID string) error
	DeletePlanRefsByGroup(ctx context.Context, tx storage.Tx, groupID string) error

	// Teachers
	CreateTeacher(ctx context.Context, teacher *models.Teacher) (string, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error

	// Referential guards
	CountPlanRefs(ctx context.Context, scope models.ScopeKind, memberID string) (int, error)
	CountSlotsByMember(ctx context.Context, scope models.ScopeKind, memberID string) (int, error)
	CountSlotsBySubject(ctx context.Context, subjectID string) (int, error)

	// Curricula
	CreateCurriculum(ctx context.Context, tx storage.Tx, curriculum *models.Curriculum) (string, error)
	GetCurriculum(ctx context.Context, tx storage.Tx, id string) (*models.Curriculum, error)
	ListCurricula(ctx context.Context) ([]*models.Curriculum, error)
	ReplacePlan(ctx context.Context, tx storage.Tx, curriculum *models.Curriculum) error
	UpdateSubjectName(ctx context.Context, tx storage.Tx, id, name string) error
	DeleteCurriculum(ctx context.Context, tx storage.Tx, id string) error
	CountScheduled(ctx context.Context, tx storage.Tx, subjectID string, scope models.ScopeKind, memberID string) (map[models.LessonType]int, error)
	UpdateScheduledHours(ctx context.Context, tx storage.Tx, curriculumID string, scope models.ScopeKind, entry models.PlanEntry) error
	SetCorrespondence(ctx context.Context, tx storage.Tx, curriculumID string, ok bool) error

	// Slots
	CreateSlot(ctx context.Context, tx storage.Tx, slot *models.Slot) (string, error)
	GetSlot(ctx context.Context, id string) (*models.Slot, error)
	ListSlots(ctx context.Context, semester int, teacherID, groupID *string) ([]*models.Slot, error)
	UpdateSlot(ctx context.Context, tx storage.Tx, slot *models.Slot) error
	DeleteSlot(ctx context.Context, tx storage.Tx, id string) error
	FindTeacherConflict(ctx context.Context, coord models.Coordinate, teacherIDs []string, excludeSlotID string) (*models.Slot, error)
	FindSlotByScope(ctx context.Context, tx storage.Tx, scope models.ScopeKind, memberID string, coord models.Coordinate) (*models.Slot, error)
}

// teacherLabel resolves a teacher's display name for error messages and
// responses. Resolution is best effort: any lookup failure falls back to
// the raw id and never fails the caller.
func (s *Service) teacherLabel(ctx context.Context, id string) string {
	teacher, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return id
	}

	return teacher.FullName
}

func (s *Service) groupLabel(ctx context.Context, id string) string {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return id
	}

	return group.Code
}
