package groupcode

import (
	"fmt"
	"regexp"
)

const (
	MinCourse = 1
	MaxCourse = 4
)

// Code is a structured group code, e.g. "КН-32" or "ПМ-з21м":
// two-letter faculty prefix, optional study-form letters, one course
// digit, one or two sequence digits, optional degree/contingent suffix.
type Code struct {
	Prefix    string
	StudyForm string
	Course    int
	Sequence  string
	Suffix    string
}

var codeRe = regexp.MustCompile(`^(\p{L}{2})-(\p{L}*)([1-9])(\d{1,2})((?:[^\d].*)?)$`)

// Parse is total: it never fails loudly. Codes that don't match the
// grammar report ok=false and must be passed through unchanged by
// callers.
func Parse(raw string) (Code, bool) {
	m := codeRe.FindStringSubmatch(raw)
	if m == nil {
		return Code{}, false
	}

	return Code{
		Prefix:    m[1],
		StudyForm: m[2],
		Course:    int(m[3][0] - '0'),
		Sequence:  m[4],
		Suffix:    m[5],
	}, true
}

func (c Code) String() string {
	return fmt.Sprintf("%s-%s%d%s%s", c.Prefix, c.StudyForm, c.Course, c.Sequence, c.Suffix)
}

// Shift moves the course by delta, keeping prefix, study form, sequence
// and suffix. ok=false means the shifted course leaves [MinCourse,MaxCourse]
// and the group leaves the active roster.
func (c Code) Shift(delta int) (Code, bool) {
	course := c.Course + delta
	if course < MinCourse || course > MaxCourse {
		return Code{}, false
	}

	shifted := c
	shifted.Course = course

	return shifted, true
}
