package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-api/internal/models"
	"github.com/noah-isme/attendance-api/internal/service"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
	"github.com/noah-isme/attendance-api/pkg/response"
)

const cacheHeader = "X-Cache"

type attendanceService interface {
	Mark(ctx context.Context, req service.MarkAttendanceRequest) (*models.Attendance, error)
	StudentReport(ctx context.Context, req service.StudentReportRequest) (*models.StudentReport, bool, error)
	Daily(ctx context.Context, req service.DailyReportRequest) (*models.DailyReport, bool, error)
}

type exportService interface {
	StudentReport(ctx context.Context, req service.StudentReportRequest, format string) (*service.ExportFile, error)
}

// AttendanceHandler exposes attendance marking and reporting endpoints.
type AttendanceHandler struct {
	attendance attendanceService
	exports    exportService
}

// NewAttendanceHandler constructs AttendanceHandler. exports may be nil when
// file export is not mounted.
func NewAttendanceHandler(attendance attendanceService, exports exportService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, exports: exports}
}

// Mark godoc
// @Summary Mark attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} AttendanceMarkedResponse
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, AttendanceMarkedResponse{Message: "Attendance marked!", Attendance: record})
}

// Report godoc
// @Summary Student attendance report
// @Tags Attendance
// @Produce json
// @Param roll_no path string true "Roll number"
// @Param start_date query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Success 200 {object} models.StudentReport
// @Failure 422 {object} response.ErrorEnvelope
// @Router /attendance/report/{roll_no} [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	report, cached, err := h.attendance.StudentReport(c.Request.Context(), reportRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	setCacheHeader(c, cached)
	response.OK(c, report)
}

// Daily godoc
// @Summary Daily attendance analytics
// @Tags Attendance
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.DailyReport
// @Failure 422 {object} response.ErrorEnvelope
// @Router /attendance/daily [get]
func (h *AttendanceHandler) Daily(c *gin.Context) {
	report, cached, err := h.attendance.Daily(c.Request.Context(), service.DailyReportRequest{Date: c.Query("date")})
	if err != nil {
		response.Error(c, err)
		return
	}
	setCacheHeader(c, cached)
	response.OK(c, report)
}

// Export godoc
// @Summary Download a student attendance report
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param roll_no path string true "Roll number"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param start_date query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 422 {object} response.ErrorEnvelope
// @Router /attendance/report/{roll_no}/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	if h.exports == nil {
		c.Status(http.StatusNotFound)
		return
	}
	file, err := h.exports.StudentReport(c.Request.Context(), reportRequest(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func reportRequest(c *gin.Context) service.StudentReportRequest {
	return service.StudentReportRequest{
		RollNo:    c.Param("roll_no"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

func setCacheHeader(c *gin.Context, hit bool) {
	if hit {
		c.Header(cacheHeader, "HIT")
		return
	}
	c.Header(cacheHeader, "MISS")
}

// AttendanceMarkedResponse echoes the stored record.
type AttendanceMarkedResponse struct {
	Message    string             `json:"message"`
	Attendance *models.Attendance `json:"attendance"`
}
