package dto

import (
	"fmt"

	"github.com/yigit/studentperf/internal/app/models"
)

// CreateRecordRequest is the body of POST /records
type CreateRecordRequest struct {
	StudentID     string   `json:"studentId"`
	FullName      string   `json:"fullName"`
	Gender        string   `json:"gender"`
	SemesterScore *float64 `json:"semesterScore"`
	StudyHours    *float64 `json:"studyHours"`
	Attendance    *float64 `json:"attendance"`
}

// ToModel converts the request to the service input
func (r CreateRecordRequest) ToModel() models.NewRecord {
	return models.NewRecord{
		StudentID: r.StudentID,
		FullName:  r.FullName,
		Gender:    models.Gender(r.Gender),
		Performance: models.Performance{
			SemesterScore: r.SemesterScore,
			StudyHours:    r.StudyHours,
			Attendance:    r.Attendance,
		},
	}
}

// RecordSavedMessage is shown after a record is stored
func RecordSavedMessage(prediction models.Prediction) string {
	return fmt.Sprintf("Record saved successfully ✔ Prediction: %s", prediction)
}

// RecordListResponse is a role-scoped list of records
type RecordListResponse struct {
	Records []models.AcademicRecord `json:"records"`
	Total   int                     `json:"total"`
}
