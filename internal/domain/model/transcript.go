package model

// Grades that earn the strong-performance bonus.
const (
	GradeA     = "A"
	GradeAPlus = "A+"
)

// Course is a single transcript line.
type Course struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// IsStrongGrade reports whether the course grade earns the A/A+ bonus.
func (c Course) IsStrongGrade() bool {
	return c.Grade == GradeA || c.Grade == GradeAPlus
}

// Transcript is a learner's ordered course history.
type Transcript struct {
	Courses []Course `json:"courses"`
}

// Clone returns a deep copy so callers can't mutate a stored transcript.
func (t *Transcript) Clone() *Transcript {
	if t == nil {
		return nil
	}
	courses := make([]Course, len(t.Courses))
	copy(courses, t.Courses)
	return &Transcript{Courses: courses}
}
