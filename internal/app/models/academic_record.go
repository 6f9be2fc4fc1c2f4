package models

// AcademicRecord defines a row of the 'academic_data' table.
// Prediction is computed once at insert and never recomputed on read.
type AcademicRecord struct {
	ID            int64      `json:"recordId" db:"record_id"`
	StudentID     string     `json:"studentId" db:"student_id"`
	FullName      string     `json:"fullName" db:"full_name"`
	Gender        Gender     `json:"gender" db:"gender"`
	SemesterScore float64    `json:"semesterScore" db:"semester_score"`
	StudyHours    float64    `json:"studyHours" db:"study_hours"`
	Attendance    float64    `json:"attendance" db:"attendance"`
	Prediction    Prediction `json:"prediction" db:"prediction"`
}

// Performance holds the figures a prediction is made from. A nil field was not
// supplied and fails validation.
type Performance struct {
	SemesterScore *float64 `json:"semesterScore" validate:"required,min=0,max=100"`
	StudyHours    *float64 `json:"studyHours" validate:"required,min=0,max=12"`
	Attendance    *float64 `json:"attendance" validate:"required,min=0,max=100"`
}

// NewPerformance returns a Performance with every figure set
func NewPerformance(semesterScore, studyHours, attendance float64) Performance {
	return Performance{
		SemesterScore: &semesterScore,
		StudyHours:    &studyHours,
		Attendance:    &attendance,
	}
}

// Values dereferences the figures. Only call it on a validated Performance.
func (p Performance) Values() (semesterScore, studyHours, attendance float64) {
	return *p.SemesterScore, *p.StudyHours, *p.Attendance
}

// NewRecord is the input for creating an academic record. StudentID is the student's username.
type NewRecord struct {
	StudentID string `json:"studentId" validate:"notblank,max=100"`
	FullName  string `json:"fullName" validate:"notblank,max=200"`
	Gender    Gender `json:"gender" validate:"oneof=Male Female Other"`
	Performance
}
