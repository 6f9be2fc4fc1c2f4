package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/studentperf/internal/app/models/dto"
	"github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordController handles academic records and student deletion
type RecordController struct {
	recordService    *services.RecordService
	dashboardService *services.DashboardService
	logger           zerolog.Logger
}

// NewRecordController creates a new RecordController
func NewRecordController(recordService *services.RecordService, dashboardService *services.DashboardService, logger zerolog.Logger) *RecordController {
	return &RecordController{
		recordService:    recordService,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// CreateRecord stores a record and returns it with its prediction
// @Summary Add an academic record
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRecordRequest true "Record"
// @Success 201 {object} dto.StructuredResponse{data=models.AcademicRecord}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Teacher role required"
// @Router /records [post]
func (c *RecordController) CreateRecord(ctx *gin.Context) {
	var req dto.CreateRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid record request payload")
		return
	}

	record, err := c.recordService.CreateRecord(ctx.Request.Context(), middleware.CurrentIdentity(ctx), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(record, dto.RecordSavedMessage(record.Prediction)))
}

// ListRecords returns the records visible to the caller
// @Summary List records
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Narrow to one student"
// @Success 200 {object} dto.StructuredResponse{data=dto.RecordListResponse}
// @Router /records [get]
func (c *RecordController) ListRecords(ctx *gin.Context) {
	records, err := c.recordService.ListRecords(ctx.Request.Context(), middleware.CurrentIdentity(ctx), ctx.Query("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.RecordListResponse{
		Records: records,
		Total:   len(records),
	}, "Records retrieved"))
}

// ExportRecords streams every record as an XLSX workbook
func (c *RecordController) ExportRecords(ctx *gin.Context) {
	data, err := c.dashboardService.ExportRecords(ctx.Request.Context(), middleware.CurrentIdentity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileName := fmt.Sprintf("academic_records_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", "attachment; filename="+fileName)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// DeleteStudent removes a student account and all of its records
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param username path string true "Student username"
// @Success 200 {object} dto.StructuredResponse{data=services.DeleteResult}
// @Router /students/{username} [delete]
func (c *RecordController) DeleteStudent(ctx *gin.Context) {
	username := ctx.Param("username")

	result, err := c.recordService.DeleteStudent(ctx.Request.Context(), middleware.CurrentIdentity(ctx), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := fmt.Sprintf("Student %s deleted", username)
	if !result.UserDeleted && result.RecordsDeleted == 0 {
		message = fmt.Sprintf("No student named %s, nothing to delete", username)
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(result, message))
}
