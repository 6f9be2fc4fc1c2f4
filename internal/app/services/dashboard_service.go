package services

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	appauth "github.com/yigit/studentperf/internal/app/auth"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/repositories"
)

// ExportSheetName is the worksheet holding exported records
const ExportSheetName = "Records"

var exportHeaders = []string{
	"Record ID", "Student ID", "Full Name", "Gender",
	"Semester Score", "Study Hours", "Attendance", "Prediction",
}

// DashboardService builds the data behind each role's dashboard
type DashboardService struct {
	recordRepo *repositories.RecordRepository
	logger     zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(recordRepo *repositories.RecordRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// View returns the dashboard the actor's role is entitled to
func (s *DashboardService) View(ctx context.Context, actor *models.Identity) (*dto.DashboardResponse, error) {
	if err := appauth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{Role: actor.Role}
	if actor.IsTeacher() {
		board, err := s.TeacherDashboard(ctx, actor)
		if err != nil {
			return nil, err
		}
		resp.Teacher = board
		return resp, nil
	}

	board, err := s.StudentDashboard(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp.Student = board
	return resp, nil
}

// StudentDashboard summarises the actor's own records
func (s *DashboardService) StudentDashboard(ctx context.Context, actor *models.Identity) (*dto.StudentDashboard, error) {
	if err := appauth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ForStudent(ctx, actor.Username)
	if err != nil {
		return nil, err
	}

	board := &dto.StudentDashboard{
		Username: actor.Username,
		Records:  records,
		Trends: dto.StudentTrends{
			Score:      make([]dto.SeriesPoint, 0, len(records)),
			Attendance: make([]dto.SeriesPoint, 0, len(records)),
			StudyHours: make([]dto.SeriesPoint, 0, len(records)),
		},
	}
	if len(records) == 0 {
		board.Notice = dto.NoticeNoAcademicRecords
		return board, nil
	}

	var attendance float64
	for _, r := range records {
		attendance += r.Attendance
		board.Trends.Score = append(board.Trends.Score, dto.SeriesPoint{RecordID: r.ID, Value: r.SemesterScore})
		board.Trends.Attendance = append(board.Trends.Attendance, dto.SeriesPoint{RecordID: r.ID, Value: r.Attendance})
		board.Trends.StudyHours = append(board.Trends.StudyHours, dto.SeriesPoint{RecordID: r.ID, Value: r.StudyHours})
	}

	latest := records[len(records)-1]
	currentScore := latest.SemesterScore
	latestHours := latest.StudyHours
	avgAttendance := round1(attendance / float64(len(records)))

	board.CurrentScore = &currentScore
	board.LatestStudyHours = &latestHours
	board.AverageAttendance = &avgAttendance
	return board, nil
}

// TeacherDashboard summarises every record
func (s *DashboardService) TeacherDashboard(ctx context.Context, actor *models.Identity) (*dto.TeacherDashboard, error) {
	if err := appauth.RequireTeacher(actor); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	board := &dto.TeacherDashboard{
		Records:           records,
		TotalRecords:      len(records),
		ScoreComparison:   make([]dto.ScoreComparison, 0, len(records)),
		StudyHoursVsScore: make([]dto.StudyScorePoint, 0, len(records)),
	}
	if len(records) == 0 {
		board.Notice = dto.NoticeNoStudentRecords
		return board, nil
	}

	var scores float64
	for _, r := range records {
		scores += r.SemesterScore
		if r.Prediction == models.PredictionPass {
			board.PassFail.Pass++
		} else {
			board.PassFail.Fail++
		}
		board.ScoreComparison = append(board.ScoreComparison, dto.ScoreComparison{
			FullName:   r.FullName,
			Score:      r.SemesterScore,
			Prediction: r.Prediction,
		})
		board.StudyHoursVsScore = append(board.StudyHoursVsScore, dto.StudyScorePoint{
			FullName:   r.FullName,
			StudyHours: r.StudyHours,
			Score:      r.SemesterScore,
			Prediction: r.Prediction,
		})
	}

	total := float64(len(records))
	board.AverageScore = round1(scores / total)
	board.PassPercentage = round1(float64(board.PassFail.Pass) / total * 100)
	return board, nil
}

// ExportRecords writes every record to a single-sheet XLSX workbook
func (s *DashboardService) ExportRecords(ctx context.Context, actor *models.Identity) ([]byte, error) {
	if err := appauth.RequireTeacher(actor); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ExportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range records {
		row := []interface{}{
			r.ID, r.StudentID, r.FullName, string(r.Gender),
			r.SemesterScore, r.StudyHours, r.Attendance, string(r.Prediction),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write record %d: %w", r.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info().Str("actor", actor.Username).Int("records", len(records)).Msg("Records exported")
	return buf.Bytes(), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
