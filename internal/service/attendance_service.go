package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-api/internal/models"
	"github.com/noah-isme/attendance-api/pkg/database"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
)

type attendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	ListByStudent(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
	ListByDate(ctx context.Context, date string) ([]models.Attendance, error)
}

type studentLookup interface {
	ExistsByRollNo(ctx context.Context, rollNo string) (bool, error)
}

// MarkAttendanceRequest describes the payload for marking attendance.
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=Present Absent"`
}

// StudentReportRequest selects a student's records. Either date bound may be
// empty, leaving that side of the range open.
type StudentReportRequest struct {
	RollNo    string `json:"roll_no" validate:"required"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// DailyReportRequest selects a single date.
type DailyReportRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// AttendanceService coordinates attendance marking and reporting.
type AttendanceService struct {
	records   attendanceRepository
	students  studentLookup
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service. cache and metrics may be nil.
func NewAttendanceService(records attendanceRepository, students studentLookup, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		records:   records,
		students:  students,
		cache:     cache,
		metrics:   metrics,
		validator: newValidator(validate),
		logger:    logger,
	}
}

// Mark stores an attendance record after confirming the student exists.
// Nothing is written for an unknown student.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Date = strings.TrimSpace(req.Date)
	req.Status = strings.TrimSpace(req.Status)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}

	exists, err := s.students.ExistsByRollNo(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}

	record := &models.Attendance{
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    models.AttendanceStatus(req.Status),
	}
	if err := s.records.Create(ctx, record); err != nil {
		// The foreign key catches a student that vanished after the check.
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}

	s.metrics.RecordAttendanceMarked(string(record.Status))
	s.cache.Invalidate(ctx, cachePattern("student", record.StudentID)+":*", cachePattern("daily", record.Date))
	return record, nil
}

// StudentRecords returns the records selected by req along with their tally.
func (s *AttendanceService) StudentRecords(ctx context.Context, req StudentReportRequest) ([]models.Attendance, models.AttendanceTally, error) {
	filter, err := s.studentFilter(req)
	if err != nil {
		return nil, models.AttendanceTally{}, err
	}
	records, err := s.listByStudent(ctx, filter)
	if err != nil {
		return nil, models.AttendanceTally{}, err
	}
	return records, Tally(records), nil
}

// StudentReport summarises a student's attendance. The boolean reports a cache hit.
// A student without records yields a zero report, not an error.
func (s *AttendanceService) StudentReport(ctx context.Context, req StudentReportRequest) (*models.StudentReport, bool, error) {
	filter, err := s.studentFilter(req)
	if err != nil {
		return nil, false, err
	}

	key := cacheKey("student", filter.StudentID, deref(filter.StartDate), deref(filter.EndDate))
	var cached models.StudentReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	records, err := s.listByStudent(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	tally := Tally(records)
	report := &models.StudentReport{
		StudentID:            filter.StudentID,
		TotalDays:            tally.Total,
		PresentDays:          tally.Present,
		AttendancePercentage: tally.Percentage,
	}
	s.cache.Set(ctx, key, report, 0)
	return report, false, nil
}

// Daily summarises attendance across all students for one date.
func (s *AttendanceService) Daily(ctx context.Context, req DailyReportRequest) (*models.DailyReport, bool, error) {
	req.Date = strings.TrimSpace(req.Date)
	if err := s.validator.Struct(req); err != nil {
		return nil, false, validationError(err, "invalid date")
	}

	key := cacheKey("daily", req.Date)
	var cached models.DailyReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	records, err := s.records.ListByDate(ctx, req.Date)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	s.metrics.ObserveDBQuery("attendance_by_date", time.Since(start))

	tally := Tally(records)
	report := &models.DailyReport{
		Date:                 req.Date,
		TotalStudents:        tally.Total,
		Present:              tally.Present,
		Absent:               tally.Absent,
		AttendancePercentage: tally.Percentage,
	}
	s.cache.Set(ctx, key, report, 0)
	return report, false, nil
}

func (s *AttendanceService) listByStudent(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	start := time.Now()
	records, err := s.records.ListByStudent(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	s.metrics.ObserveDBQuery("attendance_by_student", time.Since(start))
	return records, nil
}

// studentFilter validates req. Stored dates use models.DateLayout, so the
// repository can compare them as text.
func (s *AttendanceService) studentFilter(req StudentReportRequest) (models.AttendanceFilter, error) {
	req.RollNo = strings.TrimSpace(req.RollNo)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	if err := s.validator.Struct(req); err != nil {
		return models.AttendanceFilter{}, validationError(err, "invalid report range")
	}
	if req.StartDate != "" && req.EndDate != "" {
		start, startErr := time.Parse(models.DateLayout, req.StartDate)
		end, endErr := time.Parse(models.DateLayout, req.EndDate)
		if startErr != nil || endErr != nil {
			return models.AttendanceFilter{}, appErrors.Clone(appErrors.ErrValidation, "invalid report range")
		}
		if start.After(end) {
			return models.AttendanceFilter{}, appErrors.Clone(appErrors.ErrValidation, "invalid report range: start_date must not be after end_date")
		}
	}
	filter := models.AttendanceFilter{StudentID: req.RollNo}
	if req.StartDate != "" {
		filter.StartDate = &req.StartDate
	}
	if req.EndDate != "" {
		filter.EndDate = &req.EndDate
	}
	return filter, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
