package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

func seedRecords(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	f.model.class = 0

	for _, in := range []models.NewRecord{
		{StudentID: "sam", FullName: "Sam Doe", Gender: models.GenderMale, Performance: models.NewPerformance(65, 5, 80)},
		{StudentID: "ann", FullName: "Ann Roe", Gender: models.GenderFemale, Performance: models.NewPerformance(50, 3, 60)},
		{StudentID: "sam", FullName: "Sam Doe", Gender: models.GenderMale, Performance: models.NewPerformance(70, 6, 85)},
	} {
		_, err := f.services.RecordService.CreateRecord(ctx, teacher, in)
		require.NoError(t, err)
	}
}

func TestStudentDashboard(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)

	empty, err := f.services.DashboardService.View(ctx, student)
	require.NoError(t, err)
	require.NotNil(t, empty.Student)
	assert.Nil(t, empty.Teacher)
	assert.Equal(t, dto.NoticeNoAcademicRecords, empty.Student.Notice)
	assert.Nil(t, empty.Student.CurrentScore)

	seedRecords(t, f)

	view, err := f.services.DashboardService.View(ctx, student)
	require.NoError(t, err)
	board := view.Student
	require.Len(t, board.Records, 2)
	assert.Empty(t, board.Notice)
	assert.Equal(t, 70.0, *board.CurrentScore)
	assert.Equal(t, 6.0, *board.LatestStudyHours)
	assert.Equal(t, 82.5, *board.AverageAttendance)
	require.Len(t, board.Trends.Score, 2)
	assert.Equal(t, 65.0, board.Trends.Score[0].Value)
	assert.Equal(t, board.Records[1].ID, board.Trends.Score[1].RecordID)
}

func TestTeacherDashboard(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)

	empty, err := f.services.DashboardService.View(ctx, teacher)
	require.NoError(t, err)
	require.NotNil(t, empty.Teacher)
	assert.Equal(t, dto.NoticeNoStudentRecords, empty.Teacher.Notice)
	assert.Zero(t, empty.Teacher.TotalRecords)

	seedRecords(t, f)

	view, err := f.services.DashboardService.View(ctx, teacher)
	require.NoError(t, err)
	board := view.Teacher
	assert.Equal(t, 3, board.TotalRecords)
	assert.Equal(t, 61.7, board.AverageScore)
	assert.Equal(t, 66.7, board.PassPercentage)
	assert.Equal(t, dto.PassFailRatio{Pass: 2, Fail: 1}, board.PassFail)
	require.Len(t, board.ScoreComparison, 3)
	assert.Equal(t, dto.ScoreComparison{FullName: "Ann Roe", Score: 50, Prediction: models.PredictionFail}, board.ScoreComparison[1])
	require.Len(t, board.StudyHoursVsScore, 3)
	assert.Equal(t, 3.0, board.StudyHoursVsScore[1].StudyHours)

	_, err = f.services.DashboardService.TeacherDashboard(ctx, student)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestExportRecords(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)
	seedRecords(t, f)

	data, err := f.services.DashboardService.ExportRecords(ctx, teacher)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "ann", rows[2][1])
	assert.Equal(t, "Fail", rows[2][7])
	assert.Equal(t, "Pass", rows[3][7])

	_, err = f.services.DashboardService.ExportRecords(ctx, student)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
