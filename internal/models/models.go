package models

// ScopeKind selects which side of a slot's membership an operation is
// scoped to.
type ScopeKind string

const (
	ScopeTeacher ScopeKind = "teacher"
	ScopeGroup   ScopeKind = "group"
)

type LessonType string

const (
	LessonLecture    LessonType = "LECTURE"
	LessonPractice   LessonType = "PRACTICE"
	LessonLaboratory LessonType = "LABORATORY"
)

type VisitFormat string

const (
	VisitOnline  VisitFormat = "ONLINE"
	VisitOffline VisitFormat = "OFFLINE"
)

type TeacherPost string

const (
	PostAssistant          TeacherPost = "ASSISTANT"
	PostSeniorLecturer     TeacherPost = "SENIOR_LECTURER"
	PostAssociateProfessor TeacherPost = "ASSOCIATE_PROFESSOR"
	PostProfessor          TeacherPost = "PROFESSOR"
)

type Group struct {
	ID      string `db:"group_id"`
	Code    string `db:"code"`
	Faculty string `db:"faculty"`
}

type Teacher struct {
	ID         string      `db:"teacher_id"`
	FullName   string      `db:"full_name"`
	Department string      `db:"department"`
	Post       TeacherPost `db:"post"`
}

// PlanEntry holds planned vs scheduled hours for one teacher or group
// inside a curriculum. Scheduled counts are derived from slots, never
// edited directly.
type PlanEntry struct {
	MemberID            string `db:"member_id"`
	PlannedLectures     int    `db:"planned_lectures"`
	PlannedPracticals   int    `db:"planned_practicals"`
	PlannedLabs         int    `db:"planned_labs"`
	ScheduledLectures   int    `db:"scheduled_lectures"`
	ScheduledPracticals int    `db:"scheduled_practicals"`
	ScheduledLabs       int    `db:"scheduled_labs"`
}

// Matches reports whether scheduled hours equal planned hours for all
// three lesson kinds.
func (e PlanEntry) Matches() bool {
	return e.PlannedLectures == e.ScheduledLectures &&
		e.PlannedPracticals == e.ScheduledPracticals &&
		e.PlannedLabs == e.ScheduledLabs
}

type Curriculum struct {
	ID             string `db:"curriculum_id"`
	SubjectName    string `db:"subject_name"`
	Teachers       []PlanEntry
	Groups         []PlanEntry
	Correspondence bool `db:"correspondence"`
}

// Coordinate is one cell of the timetable grid: semester 1..2,
// parity week 1..2, day 1..6, pair 1..7.
type Coordinate struct {
	Semester int `db:"semester"`
	Week     int `db:"week"`
	Day      int `db:"day"`
	Pair     int `db:"pair"`
}

type Slot struct {
	ID         string `db:"slot_id"`
	SubjectID  string `db:"subject_id"`
	TeacherIDs []string
	GroupIDs   []string
	Coordinate
	LessonType  LessonType  `db:"lesson_type"`
	VisitFormat VisitFormat `db:"visit_format"`
	Audience    *string     `db:"audience"`
}
