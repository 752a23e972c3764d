package service

import (
	"context"
	"testing"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSlot_TracksScheduledHours(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 2, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)

	curriculum := store.curricula[subjectID]
	assert.Equal(t, 1, curriculum.Teachers[0].ScheduledLectures)
	assert.Equal(t, 1, curriculum.Groups[0].ScheduledLectures)
	assert.False(t, curriculum.Correspondence)

	_, err = svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 2, 1))
	require.NoError(t, err)

	curriculum = store.curricula[subjectID]
	assert.Equal(t, 2, curriculum.Teachers[0].ScheduledLectures)
	assert.Equal(t, 2, curriculum.Groups[0].ScheduledLectures)
	assert.True(t, curriculum.Correspondence)
}

func TestCreateSlot_RejectsTeacherOutsidePlan(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	assigned := store.addTeacher("Ivanova I.I.")
	outsider := store.addTeacher("Petrov P.P.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(assigned, 2, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, outsider, groupID, 1, 1, 1))
	require.ErrorIs(t, err, response.ErrPolicyViolation)

	assert.Empty(t, store.slots)
	assert.False(t, store.curricula[subjectID].Correspondence)
}

func TestCreateSlot_RejectsGroupOutsidePlan(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	assigned := store.addGroup("КН-21")
	outsider := store.addGroup("КН-22")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 2, 0, 0)},
		[]models.PlanEntry{planOf(assigned, 2, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, outsider, 1, 1, 1))
	require.ErrorIs(t, err, response.ErrPolicyViolation)
	assert.Empty(t, store.slots)
}

func TestCreateSlot_TeacherExclusivity(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupA := store.addGroup("КН-21")
	groupB := store.addGroup("КН-22")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 4, 0, 0)},
		[]models.PlanEntry{planOf(groupA, 2, 0, 0), planOf(groupB, 2, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupA, 1, 1, 1))
	require.NoError(t, err)

	_, err = svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupB, 1, 1, 1))
	require.ErrorIs(t, err, response.ErrPolicyViolation)
	assert.Len(t, store.slots, 1)
}

func TestCreateSlot_GroupMayOverlap(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherA := store.addTeacher("Ivanova I.I.")
	teacherB := store.addTeacher("Petrov P.P.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("English",
		[]models.PlanEntry{planOf(teacherA, 1, 0, 0), planOf(teacherB, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	// parallel sub-group lessons share the coordinate
	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherA, groupID, 1, 1, 1))
	require.NoError(t, err)

	_, err = svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherB, groupID, 1, 1, 1))
	require.NoError(t, err)

	assert.Len(t, store.slots, 2)
}

func TestDeleteSlot_RecalculatesCorrespondence(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 2, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	first, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 2, 1))
	require.NoError(t, err)
	require.True(t, store.curricula[subjectID].Correspondence)

	require.NoError(t, svc.DeleteSlot(ctx, first.ID))

	curriculum := store.curricula[subjectID]
	assert.Equal(t, 1, curriculum.Teachers[0].ScheduledLectures)
	assert.False(t, curriculum.Correspondence)
}

func TestEditSlot_MovesBetweenSubjects(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectA := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)
	subjectB := store.addCurriculum("Databases",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)

	created, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectA, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)
	require.True(t, store.curricula[subjectA].Correspondence)

	require.NoError(t, svc.EditSlot(ctx, created.ID, lectureSlotRequest(subjectB, teacherID, groupID, 1, 1, 1)))

	assert.Equal(t, 0, store.curricula[subjectA].Teachers[0].ScheduledLectures)
	assert.False(t, store.curricula[subjectA].Correspondence)
	assert.Equal(t, 1, store.curricula[subjectB].Teachers[0].ScheduledLectures)
	assert.True(t, store.curricula[subjectB].Correspondence)
}

func TestEditSlot_ConflictCheckExcludesItself(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 2, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	created, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)

	// same coordinate, only the format changes
	req := lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1)
	req.VisitFormat = string(models.VisitOnline)

	require.NoError(t, svc.EditSlot(ctx, created.ID, req))
	assert.Equal(t, models.VisitOnline, store.slots[created.ID].VisitFormat)
}

func TestGetSlotDetail_ResolvesNames(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 2, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 2, 0, 0)},
	)

	created, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)

	detail, err := svc.GetSlotDetail(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Algorithms", detail.SubjectName)
	assert.Equal(t, []string{"Ivanova I.I."}, detail.TeacherNames)
	assert.Equal(t, []string{"КН-21"}, detail.GroupCodes)
}
