package service

import (
	"context"
	"testing"
	"timetable-service/api"
	"timetable-service/internal/models"
	"timetable-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapRequest(scope, scopeID string, source, destination api.CoordinateRef) *api.SwapRequest {
	return &api.SwapRequest{
		Scope:       scope,
		ScopeID:     scopeID,
		Semester:    1,
		Source:      source,
		Destination: destination,
	}
}

func TestSwap_ExchangesOccupiedCells(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	algorithms := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)
	databases := store.addCurriculum("Databases",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(algorithms, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, lectureSlotRequest(databases, teacherID, groupID, 1, 3, 2))
	require.NoError(t, err)

	err = svc.Swap(ctx, swapRequest("teacher", teacherID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 3, Pair: 2},
	))
	require.NoError(t, err)

	atSource := store.slotAt(models.ScopeTeacher, teacherID, models.Coordinate{Semester: 1, Week: 1, Day: 1, Pair: 1})
	require.NotNil(t, atSource)
	assert.Equal(t, databases, atSource.SubjectID)

	atDestination := store.slotAt(models.ScopeTeacher, teacherID, models.Coordinate{Semester: 1, Week: 1, Day: 3, Pair: 2})
	require.NotNil(t, atDestination)
	assert.Equal(t, algorithms, atDestination.SubjectID)

	assert.Len(t, store.slots, 2)
}

func TestSwap_MovesIntoEmptyCell(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)

	err = svc.Swap(ctx, swapRequest("group", groupID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 2, Day: 5, Pair: 4},
	))
	require.NoError(t, err)

	assert.Nil(t, store.slotAt(models.ScopeGroup, groupID, models.Coordinate{Semester: 1, Week: 1, Day: 1, Pair: 1}))

	moved := store.slotAt(models.ScopeGroup, groupID, models.Coordinate{Semester: 1, Week: 2, Day: 5, Pair: 4})
	require.NotNil(t, moved)
	assert.Equal(t, subjectID, moved.SubjectID)
}

func TestSwap_SameCellIsNoOp(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)

	created, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)

	err = svc.Swap(ctx, swapRequest("teacher", teacherID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
	))
	require.NoError(t, err)

	// the slot stays put under its original id
	assert.Len(t, store.slots, 1)
	assert.Contains(t, store.slots, created.ID)
	assert.Equal(t, models.Coordinate{Semester: 1, Week: 1, Day: 1, Pair: 1}, store.slots[created.ID].Coordinate)
}

func TestSwap_BothCellsEmptyIsNoOp(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")

	err := svc.Swap(ctx, swapRequest("teacher", teacherID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 2, Pair: 2},
	))
	require.NoError(t, err)
	assert.Empty(t, store.slots)
}

func TestSwap_PreservesCorrespondence(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")
	groupID := store.addGroup("КН-21")
	subjectID := store.addCurriculum("Algorithms",
		[]models.PlanEntry{planOf(teacherID, 1, 0, 0)},
		[]models.PlanEntry{planOf(groupID, 1, 0, 0)},
	)

	_, err := svc.CreateSlot(ctx, lectureSlotRequest(subjectID, teacherID, groupID, 1, 1, 1))
	require.NoError(t, err)
	require.True(t, store.curricula[subjectID].Correspondence)

	err = svc.Swap(ctx, swapRequest("teacher", teacherID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 4, Pair: 3},
	))
	require.NoError(t, err)

	assert.True(t, store.curricula[subjectID].Correspondence)
	assert.Equal(t, 1, store.curricula[subjectID].Teachers[0].ScheduledLectures)
}

func TestSwap_Locked(t *testing.T) {
	svc, _, locker := newTestService()
	locker.busy = true

	err := svc.Swap(context.Background(), swapRequest("teacher", "t-1",
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 2, Pair: 2},
	))
	require.ErrorIs(t, err, response.ErrLocked)
}

func TestSwap_ReleasesLock(t *testing.T) {
	svc, store, locker := newTestService()
	ctx := context.Background()

	teacherID := store.addTeacher("Ivanova I.I.")

	err := svc.Swap(ctx, swapRequest("teacher", teacherID,
		api.CoordinateRef{Week: 1, Day: 1, Pair: 1},
		api.CoordinateRef{Week: 1, Day: 2, Pair: 2},
	))
	require.NoError(t, err)
	assert.Empty(t, locker.held)
}
