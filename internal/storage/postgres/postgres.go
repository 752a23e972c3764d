package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"timetable-service/internal/models"
	"timetable-service/internal/storage"
	"timetable-service/pkg/response"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (storage.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// ApplyMigrations runs every .sql file in dir in lexical order.
func (s *Storage) ApplyMigrations(dir string) error {
	const op = "storage.postgres.ApplyMigrations"

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%s: read dir: %w", op, err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, file.Name(), err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("%s: apply %s: %w", op, file.Name(), err)
		}
	}

	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q routes a query through tx when one is open, else through the pool.
func (s *Storage) q(tx storage.Tx) querier {
	if t, ok := tx.(*sql.Tx); ok && t != nil {
		return t
	}

	return s.db
}

// #### groups ####

func (s *Storage) CreateGroup(ctx context.Context, group *models.Group) (string, error) {
	const op = "storage.postgres.CreateGroup"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (group_id, code, faculty) VALUES ($1, $2, $3)`,
		id, group.Code, group.Faculty,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	const op = "storage.postgres.GetGroup"

	var group models.Group

	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, code, faculty FROM groups WHERE group_id=$1`, id).
		Scan(&group.ID, &group.Code, &group.Faculty)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &group, nil
}

func (s *Storage) ListGroups(ctx context.Context, tx storage.Tx) ([]*models.Group, error) {
	const op = "storage.postgres.ListGroups"

	rows, err := s.q(tx).QueryContext(ctx, `SELECT group_id, code, faculty FROM groups ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var groups []*models.Group

	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Code, &group.Faculty); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		groups = append(groups, &group)
	}

	return groups, nil
}

func (s *Storage) UpdateGroupCode(ctx context.Context, tx storage.Tx, id, code string) error {
	const op = "storage.postgres.UpdateGroupCode"

	_, err := s.q(tx).ExecContext(ctx, `UPDATE groups SET code=$1 WHERE group_id=$2`, code, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteGroup(ctx context.Context, tx storage.Tx, id string) error {
	const op = "storage.postgres.DeleteGroup"

	res, err := s.q(tx).ExecContext(ctx, `DELETE FROM groups WHERE group_id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) CountPlanRefs(ctx context.Context, scope models.ScopeKind, memberID string) (int, error) {
	const op = "storage.postgres.CountPlanRefs"

	var n int

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE member_id=$1`, planTable(scope)), memberID).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) CountSlotsByMember(ctx context.Context, scope models.ScopeKind, memberID string) (int, error) {
	const op = "storage.postgres.CountSlotsByMember"

	var n int

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM schedule_slots WHERE %s @> $1`, memberColumn(scope)),
		pq.Array([]string{memberID})).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) DeleteSlotsByGroup(ctx context.Context, tx storage.Tx, groupID string) error {
	const op = "storage.postgres.DeleteSlotsByGroup"

	_, err := s.q(tx).ExecContext(ctx,
		`DELETE FROM schedule_slots WHERE group_ids @> $1`, pq.Array([]string{groupID}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeletePlanRefsByGroup(ctx context.Context, tx storage.Tx, groupID string) error {
	const op = "storage.postgres.DeletePlanRefsByGroup"

	_, err := s.q(tx).ExecContext(ctx, `DELETE FROM curriculum_groups WHERE member_id=$1`, groupID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### teachers ####

func (s *Storage) CreateTeacher(ctx context.Context, teacher *models.Teacher) (string, error) {
	const op = "storage.postgres.CreateTeacher"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (teacher_id, full_name, department, post) VALUES ($1, $2, $3, $4)`,
		id, teacher.FullName, teacher.Department, string(teacher.Post),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	const op = "storage.postgres.GetTeacher"

	var teacher models.Teacher

	err := s.db.QueryRowContext(ctx,
		`SELECT teacher_id, full_name, department, post FROM teachers WHERE teacher_id=$1`, id).
		Scan(&teacher.ID, &teacher.FullName, &teacher.Department, &teacher.Post)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &teacher, nil
}

func (s *Storage) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	const op = "storage.postgres.ListTeachers"

	rows, err := s.db.QueryContext(ctx,
		`SELECT teacher_id, full_name, department, post FROM teachers ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var teachers []*models.Teacher

	for rows.Next() {
		var teacher models.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.FullName, &teacher.Department, &teacher.Post); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		teachers = append(teachers, &teacher)
	}

	return teachers, nil
}

func (s *Storage) DeleteTeacher(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteTeacher"

	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### curricula ####

func (s *Storage) CreateCurriculum(ctx context.Context, tx storage.Tx, curriculum *models.Curriculum) (string, error) {
	const op = "storage.postgres.CreateCurriculum"

	id := uuid.NewString()

	_, err := s.q(tx).ExecContext(ctx,
		`INSERT INTO curricula (curriculum_id, subject_name, correspondence) VALUES ($1, $2, $3)`,
		id, curriculum.SubjectName, curriculum.Correspondence,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op,
				response.PolicyError("subject %q already exists", curriculum.SubjectName))
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.insertPlan(ctx, tx, id, models.ScopeTeacher, curriculum.Teachers); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.insertPlan(ctx, tx, id, models.ScopeGroup, curriculum.Groups); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) insertPlan(ctx context.Context, tx storage.Tx, curriculumID string, scope models.ScopeKind, entries []models.PlanEntry) error {
	for _, e := range entries {
		_, err := s.q(tx).ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s
			(curriculum_id, member_id,
			planned_lectures, planned_practicals, planned_labs,
			scheduled_lectures, scheduled_practicals, scheduled_labs)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, planTable(scope)),
			curriculumID, e.MemberID,
			e.PlannedLectures, e.PlannedPracticals, e.PlannedLabs,
			e.ScheduledLectures, e.ScheduledPracticals, e.ScheduledLabs,
		)
		if err != nil {
			sqlErr, ok := err.(*pq.Error)
			if ok && sqlErr.Code == "23503" {
				return fmt.Errorf("insert plan: %w", response.ErrNotFound)
			}

			return fmt.Errorf("insert plan: %w", err)
		}
	}

	return nil
}

func (s *Storage) GetCurriculum(ctx context.Context, tx storage.Tx, id string) (*models.Curriculum, error) {
	const op = "storage.postgres.GetCurriculum"

	var curriculum models.Curriculum

	err := s.q(tx).QueryRowContext(ctx,
		`SELECT curriculum_id, subject_name, correspondence FROM curricula WHERE curriculum_id=$1`, id).
		Scan(&curriculum.ID, &curriculum.SubjectName, &curriculum.Correspondence)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if curriculum.Teachers, err = s.planEntries(ctx, tx, id, models.ScopeTeacher); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if curriculum.Groups, err = s.planEntries(ctx, tx, id, models.ScopeGroup); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &curriculum, nil
}

func (s *Storage) planEntries(ctx context.Context, tx storage.Tx, curriculumID string, scope models.ScopeKind) ([]models.PlanEntry, error) {
	rows, err := s.q(tx).QueryContext(ctx,
		fmt.Sprintf(`SELECT member_id,
		planned_lectures, planned_practicals, planned_labs,
		scheduled_lectures, scheduled_practicals, scheduled_labs
		FROM %s WHERE curriculum_id=$1 ORDER BY member_id`, planTable(scope)),
		curriculumID)
	if err != nil {
		return nil, fmt.Errorf("plan entries: %w", err)
	}

	defer rows.Close()

	var entries []models.PlanEntry

	for rows.Next() {
		var e models.PlanEntry
		err := rows.Scan(&e.MemberID,
			&e.PlannedLectures, &e.PlannedPracticals, &e.PlannedLabs,
			&e.ScheduledLectures, &e.ScheduledPracticals, &e.ScheduledLabs,
		)
		if err != nil {
			return nil, fmt.Errorf("plan entries: %w", err)
		}

		entries = append(entries, e)
	}

	return entries, nil
}

func (s *Storage) ListCurricula(ctx context.Context) ([]*models.Curriculum, error) {
	const op = "storage.postgres.ListCurricula"

	rows, err := s.db.QueryContext(ctx,
		`SELECT curriculum_id FROM curricula ORDER BY subject_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		ids = append(ids, id)
	}

	var curricula []*models.Curriculum

	for _, id := range ids {
		curriculum, err := s.GetCurriculum(ctx, nil, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		curricula = append(curricula, curriculum)
	}

	return curricula, nil
}

// ReplacePlan swaps out the whole membership of a curriculum, scheduled
// counts included; callers re-derive them afterwards.
func (s *Storage) ReplacePlan(ctx context.Context, tx storage.Tx, curriculum *models.Curriculum) error {
	const op = "storage.postgres.ReplacePlan"

	for _, scope := range []models.ScopeKind{models.ScopeTeacher, models.ScopeGroup} {
		_, err := s.q(tx).ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE curriculum_id=$1`, planTable(scope)), curriculum.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.insertPlan(ctx, tx, curriculum.ID, models.ScopeTeacher, curriculum.Teachers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.insertPlan(ctx, tx, curriculum.ID, models.ScopeGroup, curriculum.Groups); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateSubjectName(ctx context.Context, tx storage.Tx, id, name string) error {
	const op = "storage.postgres.UpdateSubjectName"

	res, err := s.q(tx).ExecContext(ctx,
		`UPDATE curricula SET subject_name=$1 WHERE curriculum_id=$2`, name, id)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op,
				response.PolicyError("subject %q already exists", name))
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteCurriculum(ctx context.Context, tx storage.Tx, id string) error {
	const op = "storage.postgres.DeleteCurriculum"

	for _, scope := range []models.ScopeKind{models.ScopeTeacher, models.ScopeGroup} {
		_, err := s.q(tx).ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE curriculum_id=$1`, planTable(scope)), id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	res, err := s.q(tx).ExecContext(ctx, `DELETE FROM curricula WHERE curriculum_id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) CountSlotsBySubject(ctx context.Context, subjectID string) (int, error) {
	const op = "storage.postgres.CountSlotsBySubject"

	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedule_slots WHERE subject_id=$1`, subjectID).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// CountScheduled counts the subject's slots per lesson type that include
// the given member.
func (s *Storage) CountScheduled(ctx context.Context, tx storage.Tx, subjectID string, scope models.ScopeKind, memberID string) (map[models.LessonType]int, error) {
	const op = "storage.postgres.CountScheduled"

	rows, err := s.q(tx).QueryContext(ctx,
		fmt.Sprintf(`SELECT lesson_type, COUNT(*)
		FROM schedule_slots
		WHERE subject_id=$1 AND %s @> $2
		GROUP BY lesson_type`, memberColumn(scope)),
		subjectID, pq.Array([]string{memberID}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	counts := map[models.LessonType]int{}

	for rows.Next() {
		var lesson models.LessonType
		var n int
		if err := rows.Scan(&lesson, &n); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		counts[lesson] = n
	}

	return counts, nil
}

func (s *Storage) UpdateScheduledHours(ctx context.Context, tx storage.Tx, curriculumID string, scope models.ScopeKind, entry models.PlanEntry) error {
	const op = "storage.postgres.UpdateScheduledHours"

	_, err := s.q(tx).ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s
		SET scheduled_lectures=$1, scheduled_practicals=$2, scheduled_labs=$3
		WHERE curriculum_id=$4 AND member_id=$5`, planTable(scope)),
		entry.ScheduledLectures, entry.ScheduledPracticals, entry.ScheduledLabs,
		curriculumID, entry.MemberID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) SetCorrespondence(ctx context.Context, tx storage.Tx, curriculumID string, ok bool) error {
	const op = "storage.postgres.SetCorrespondence"

	_, err := s.q(tx).ExecContext(ctx,
		`UPDATE curricula SET correspondence=$1 WHERE curriculum_id=$2`, ok, curriculumID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### slots ####

const slotColumns = `slot_id, subject_id, teacher_ids, group_ids,
	semester, week, day, pair, lesson_type, visit_format, audience`

func (s *Storage) CreateSlot(ctx context.Context, tx storage.Tx, slot *models.Slot) (string, error) {
	const op = "storage.postgres.CreateSlot"

	id := uuid.NewString()

	_, err := s.q(tx).ExecContext(ctx,
		`INSERT INTO schedule_slots
		(slot_id, subject_id, teacher_ids, group_ids,
		semester, week, day, pair, lesson_type, visit_format, audience)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, slot.SubjectID, pq.Array(slot.TeacherIDs), pq.Array(slot.GroupIDs),
		slot.Semester, slot.Week, slot.Day, slot.Pair,
		string(slot.LessonType), string(slot.VisitFormat), slot.Audience,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func scanSlot(row interface{ Scan(dest ...any) error }) (*models.Slot, error) {
	var slot models.Slot

	err := row.Scan(&slot.ID, &slot.SubjectID,
		pq.Array(&slot.TeacherIDs), pq.Array(&slot.GroupIDs),
		&slot.Semester, &slot.Week, &slot.Day, &slot.Pair,
		&slot.LessonType, &slot.VisitFormat, &slot.Audience,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (s *Storage) GetSlot(ctx context.Context, id string) (*models.Slot, error) {
	const op = "storage.postgres.GetSlot"

	slot, err := scanSlot(s.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots WHERE slot_id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

func (s *Storage) ListSlots(ctx context.Context, semester int, teacherID, groupID *string) ([]*models.Slot, error) {
	const op = "storage.postgres.ListSlots"

	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE semester=$1`
	args := []any{semester}

	if teacherID != nil {
		args = append(args, pq.Array([]string{*teacherID}))
		query += fmt.Sprintf(` AND teacher_ids @> $%d`, len(args))
	}
	if groupID != nil {
		args = append(args, pq.Array([]string{*groupID}))
		query += fmt.Sprintf(` AND group_ids @> $%d`, len(args))
	}

	query += ` ORDER BY week, day, pair`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var slots []*models.Slot

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

func (s *Storage) UpdateSlot(ctx context.Context, tx storage.Tx, slot *models.Slot) error {
	const op = "storage.postgres.UpdateSlot"

	res, err := s.q(tx).ExecContext(ctx,
		`UPDATE schedule_slots
		SET subject_id=$1, teacher_ids=$2, group_ids=$3,
		semester=$4, week=$5, day=$6, pair=$7,
		lesson_type=$8, visit_format=$9, audience=$10
		WHERE slot_id=$11`,
		slot.SubjectID, pq.Array(slot.TeacherIDs), pq.Array(slot.GroupIDs),
		slot.Semester, slot.Week, slot.Day, slot.Pair,
		string(slot.LessonType), string(slot.VisitFormat), slot.Audience,
		slot.ID,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteSlot(ctx context.Context, tx storage.Tx, id string) error {
	const op = "storage.postgres.DeleteSlot"

	res, err := s.q(tx).ExecContext(ctx, `DELETE FROM schedule_slots WHERE slot_id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// FindTeacherConflict returns any other slot at the coordinate sharing a
// teacher, nil when the coordinate is free for all of them.
func (s *Storage) FindTeacherConflict(ctx context.Context, coord models.Coordinate, teacherIDs []string, excludeSlotID string) (*models.Slot, error) {
	const op = "storage.postgres.FindTeacherConflict"

	slot, err := scanSlot(s.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots
		WHERE semester=$1 AND week=$2 AND day=$3 AND pair=$4
		AND teacher_ids && $5
		AND slot_id != $6
		LIMIT 1`,
		coord.Semester, coord.Week, coord.Day, coord.Pair,
		pq.Array(teacherIDs), excludeSlotID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

// FindSlotByScope picks any slot at the coordinate containing the member;
// with several parallel group slots the tie-break is unspecified.
func (s *Storage) FindSlotByScope(ctx context.Context, tx storage.Tx, scope models.ScopeKind, memberID string, coord models.Coordinate) (*models.Slot, error) {
	const op = "storage.postgres.FindSlotByScope"

	slot, err := scanSlot(s.q(tx).QueryRowContext(ctx,
		fmt.Sprintf(`SELECT `+slotColumns+` FROM schedule_slots
		WHERE semester=$1 AND week=$2 AND day=$3 AND pair=$4
		AND %s @> $5
		LIMIT 1`, memberColumn(scope)),
		coord.Semester, coord.Week, coord.Day, coord.Pair,
		pq.Array([]string{memberID}),
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

func planTable(scope models.ScopeKind) string {
	if scope == models.ScopeTeacher {
		return "curriculum_teachers"
	}

	return "curriculum_groups"
}

func memberColumn(scope models.ScopeKind) string {
	if scope == models.ScopeTeacher {
		return "teacher_ids"
	}

	return "group_ids"
}
