package dto

import "github.com/yigit/studentperf/internal/app/models"

// Notices shown when a dashboard has nothing to display
const (
	NoticeNoAcademicRecords = "No academic records found."
	NoticeNoStudentRecords  = "No student records yet."
)

// SeriesPoint is one point of a chart series keyed by record
type SeriesPoint struct {
	RecordID int64   `json:"recordId"`
	Value    float64 `json:"value"`
}

// StudentTrends holds the student's per-record trend lines
type StudentTrends struct {
	Score      []SeriesPoint `json:"score"`
	Attendance []SeriesPoint `json:"attendance"`
	StudyHours []SeriesPoint `json:"studyHours"`
}

// StudentDashboard is what a student sees
type StudentDashboard struct {
	Username          string                  `json:"username"`
	Records           []models.AcademicRecord `json:"records"`
	CurrentScore      *float64                `json:"currentScore,omitempty"`
	AverageAttendance *float64                `json:"averageAttendance,omitempty"`
	LatestStudyHours  *float64                `json:"latestStudyHours,omitempty"`
	Trends            StudentTrends           `json:"trends"`
	Notice            string                  `json:"notice,omitempty"`
}

// ScoreComparison is one bar of the per-student score chart
type ScoreComparison struct {
	FullName   string            `json:"fullName"`
	Score      float64           `json:"score"`
	Prediction models.Prediction `json:"prediction"`
}

// StudyScorePoint is one point of the study hours vs score scatter
type StudyScorePoint struct {
	FullName   string            `json:"fullName"`
	StudyHours float64           `json:"studyHours"`
	Score      float64           `json:"score"`
	Prediction models.Prediction `json:"prediction"`
}

// PassFailRatio counts predictions across all records
type PassFailRatio struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// TeacherDashboard is what a teacher sees
type TeacherDashboard struct {
	Records           []models.AcademicRecord `json:"records"`
	TotalRecords      int                     `json:"totalRecords"`
	AverageScore      float64                 `json:"averageScore"`
	PassPercentage    float64                 `json:"passPercentage"`
	ScoreComparison   []ScoreComparison       `json:"scoreComparison"`
	StudyHoursVsScore []StudyScorePoint       `json:"studyHoursVsScore"`
	PassFail          PassFailRatio           `json:"passFail"`
	Notice            string                  `json:"notice,omitempty"`
}

// DashboardResponse wraps whichever dashboard the role is entitled to
type DashboardResponse struct {
	Role    models.Role       `json:"role"`
	Student *StudentDashboard `json:"student,omitempty"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
}
