package api

type GroupRequest struct {
	Code    string `json:"code" validate:"required"`
	Faculty string `json:"faculty" validate:"required"`
}

type GroupResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Faculty string `json:"faculty"`
}

type TeacherRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Post       string `json:"post" validate:"required,oneof=ASSISTANT SENIOR_LECTURER ASSOCIATE_PROFESSOR PROFESSOR"`
}

type TeacherResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Post       string `json:"post"`
}

type PlanEntryRequest struct {
	ID                string `json:"id" validate:"required"`
	PlannedLectures   int    `json:"planned_lectures" validate:"min=0"`
	PlannedPracticals int    `json:"planned_practicals" validate:"min=0"`
	PlannedLabs       int    `json:"planned_labs" validate:"min=0"`
}

type PlanEntryResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	PlannedLectures     int    `json:"planned_lectures"`
	PlannedPracticals   int    `json:"planned_practicals"`
	PlannedLabs         int    `json:"planned_labs"`
	ScheduledLectures   int    `json:"scheduled_lectures"`
	ScheduledPracticals int    `json:"scheduled_practicals"`
	ScheduledLabs       int    `json:"scheduled_labs"`
}

type CurriculumRequest struct {
	SubjectName string             `json:"subject_name" validate:"required"`
	Teachers    []PlanEntryRequest `json:"teachers" validate:"dive"`
	Groups      []PlanEntryRequest `json:"groups" validate:"dive"`
}

type CurriculumResponse struct {
	ID             string              `json:"id"`
	SubjectName    string              `json:"subject_name"`
	Teachers       []PlanEntryResponse `json:"teachers"`
	Groups         []PlanEntryResponse `json:"groups"`
	Correspondence bool                `json:"correspondence"`
}

type SlotRequest struct {
	SubjectID   string   `json:"subject_id" validate:"required"`
	TeacherIDs  []string `json:"teacher_ids" validate:"required,min=1"`
	GroupIDs    []string `json:"group_ids" validate:"required,min=1"`
	Semester    int      `json:"semester" validate:"required,min=1,max=2"`
	Week        int      `json:"week" validate:"required,min=1,max=2"`
	Day         int      `json:"day" validate:"required,min=1,max=6"`
	Pair        int      `json:"pair" validate:"required,min=1,max=7"`
	LessonType  string   `json:"lesson_type" validate:"required,oneof=LECTURE PRACTICE LABORATORY"`
	VisitFormat string   `json:"visit_format" validate:"required,oneof=ONLINE OFFLINE"`
	Audience    *string  `json:"audience,omitempty"`
}

type SlotResponse struct {
	ID          string   `json:"id"`
	SubjectID   string   `json:"subject_id"`
	SubjectName string   `json:"subject_name,omitempty"`
	TeacherIDs  []string `json:"teacher_ids"`
	GroupIDs    []string `json:"group_ids"`
	Semester    int      `json:"semester"`
	Week        int      `json:"week"`
	Day         int      `json:"day"`
	Pair        int      `json:"pair"`
	LessonType  string   `json:"lesson_type"`
	VisitFormat string   `json:"visit_format"`
	Audience    *string  `json:"audience,omitempty"`
}

type SlotDetailResponse struct {
	SlotResponse
	TeacherNames []string `json:"teacher_names"`
	GroupCodes   []string `json:"group_codes"`
}

type CoordinateRef struct {
	Week int `json:"week" validate:"required,min=1,max=2"`
	Day  int `json:"day" validate:"required,min=1,max=6"`
	Pair int `json:"pair" validate:"required,min=1,max=7"`
}

type SwapRequest struct {
	Scope       string        `json:"scope" validate:"required,oneof=teacher group"`
	ScopeID     string        `json:"scope_id" validate:"required"`
	Semester    int           `json:"semester" validate:"required,min=1,max=2"`
	Source      CoordinateRef `json:"source" validate:"required"`
	Destination CoordinateRef `json:"destination" validate:"required"`
}

type YearTransitionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=FORWARD BACKWARD"`
}
