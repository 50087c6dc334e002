package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-api/internal/models"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
)

func newAttendanceFixture(cache *CacheService) (*AttendanceService, *attendanceStore) {
	students := &memoryStore{students: []models.Student{{RollNo: "R1", Department: "CS"}, {RollNo: "R2", Department: "CS"}}}
	store := &attendanceStore{memoryStore: students}
	svc := NewAttendanceService(store, students, cache, nil, validator.New(), zap.NewNop())
	return svc, store
}

func mark(t *testing.T, svc *AttendanceService, studentID, date, status string) {
	t.Helper()
	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: studentID, Date: date, Status: status})
	require.NoError(t, err)
}

func TestAttendanceServiceMark(t *testing.T) {
	svc, store := newAttendanceFixture(nil)

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: "R1", Date: "2024-01-01", Status: "Present"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	assert.Len(t, store.records, 1)
}

func TestAttendanceServiceMarkUnknownStudent(t *testing.T) {
	svc, store := newAttendanceFixture(nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: "R404", Date: "2024-01-01", Status: "Present"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "Student not found", appErrors.FromError(err).Message)
	assert.Empty(t, store.records)
}

func TestAttendanceServiceMarkForeignKeyRace(t *testing.T) {
	svc, store := newAttendanceFixture(nil)
	store.createErr = &pq.Error{Code: "23503"}

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{StudentID: "R1", Date: "2024-01-01", Status: "Present"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAttendanceServiceMarkValidation(t *testing.T) {
	cases := map[string]MarkAttendanceRequest{
		"missing student": {Date: "2024-01-01", Status: "Present"},
		"bad date":        {StudentID: "R1", Date: "01/02/2024", Status: "Present"},
		"unpadded date":   {StudentID: "R1", Date: "2024-1-2", Status: "Present"},
		"unknown status":  {StudentID: "R1", Date: "2024-01-01", Status: "Late"},
		"lowercase":       {StudentID: "R1", Date: "2024-01-01", Status: "present"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store := newAttendanceFixture(nil)
			_, err := svc.Mark(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
			assert.Empty(t, store.records)
		})
	}
}

func TestAttendanceServiceStudentReport(t *testing.T) {
	svc, _ := newAttendanceFixture(nil)
	mark(t, svc, "R1", "2024-01-01", "Present")
	mark(t, svc, "R1", "2024-01-02", "Absent")

	report, cached, err := svc.StudentReport(context.Background(), StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, &models.StudentReport{StudentID: "R1", TotalDays: 2, PresentDays: 1, AttendancePercentage: "50.00%"}, report)
}

func TestAttendanceServiceStudentReportNoRecords(t *testing.T) {
	svc, _ := newAttendanceFixture(nil)

	report, _, err := svc.StudentReport(context.Background(), StudentReportRequest{RollNo: "R2"})
	require.NoError(t, err)
	assert.Equal(t, &models.StudentReport{StudentID: "R2", TotalDays: 0, PresentDays: 0, AttendancePercentage: "0.00%"}, report)
}

func TestAttendanceServiceStudentReportRanges(t *testing.T) {
	svc, store := newAttendanceFixture(nil)
	mark(t, svc, "R1", "2024-01-01", "Present")
	mark(t, svc, "R1", "2024-01-15", "Absent")
	mark(t, svc, "R1", "2024-02-01", "Present")
	ctx := context.Background()

	cases := []struct {
		name        string
		req         StudentReportRequest
		total       int
		present     int
		percentage  string
		wantStart   bool
		wantEndDate bool
	}{
		{"no range", StudentReportRequest{RollNo: "R1"}, 3, 2, "66.67%", false, false},
		{"inclusive range", StudentReportRequest{RollNo: "R1", StartDate: "2024-01-01", EndDate: "2024-01-15"}, 2, 1, "50.00%", true, true},
		{"start only is open ended", StudentReportRequest{RollNo: "R1", StartDate: "2024-01-15"}, 2, 1, "50.00%", true, false},
		{"end only is open ended", StudentReportRequest{RollNo: "R1", EndDate: "2024-01-01"}, 1, 1, "100.00%", false, true},
		{"empty window", StudentReportRequest{RollNo: "R1", StartDate: "2023-01-01", EndDate: "2023-12-31"}, 0, 0, "0.00%", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, _, err := svc.StudentReport(ctx, tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.total, report.TotalDays)
			assert.Equal(t, tc.present, report.PresentDays)
			assert.LessOrEqual(t, report.PresentDays, report.TotalDays)
			assert.Equal(t, tc.percentage, report.AttendancePercentage)
			assert.Equal(t, tc.wantStart, store.lastAttFilter.StartDate != nil)
			assert.Equal(t, tc.wantEndDate, store.lastAttFilter.EndDate != nil)
		})
	}
}

func TestAttendanceServiceStudentReportInvalidRange(t *testing.T) {
	svc, store := newAttendanceFixture(nil)
	ctx := context.Background()

	for _, req := range []StudentReportRequest{
		{RollNo: "R1", StartDate: "2024-02-01", EndDate: "2024-01-01"},
		{RollNo: "R1", StartDate: "yesterday"},
		{RollNo: ""},
	} {
		_, _, err := svc.StudentReport(ctx, req)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
	}
	assert.Zero(t, store.queries)
}

func TestAttendanceServiceStudentReportRangeOrder(t *testing.T) {
	svc, _ := newAttendanceFixture(nil)
	ctx := context.Background()

	for _, req := range []StudentReportRequest{
		{RollNo: "R1", StartDate: "2024-12-31", EndDate: "2025-01-01"},
		{RollNo: "R1", StartDate: "2024-03-01", EndDate: "2024-03-01"},
	} {
		_, _, err := svc.StudentReport(ctx, req)
		assert.NoError(t, err, "%s..%s", req.StartDate, req.EndDate)
	}

	_, _, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1", StartDate: "2024-03-02", EndDate: "2024-03-01"})
	require.Error(t, err)
	assert.Equal(t, "invalid report range: start_date must not be after end_date", appErrors.FromError(err).Message)
}

func TestAttendanceServiceDaily(t *testing.T) {
	svc, _ := newAttendanceFixture(nil)
	mark(t, svc, "R1", "2024-01-01", "Present")

	report, _, err := svc.Daily(context.Background(), DailyReportRequest{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, &models.DailyReport{Date: "2024-01-01", TotalStudents: 1, Present: 1, Absent: 0, AttendancePercentage: "100.00%"}, report)
}

func TestAttendanceServiceDailyCountsEveryNonPresentAsAbsent(t *testing.T) {
	svc, store := newAttendanceFixture(nil)
	mark(t, svc, "R1", "2024-01-01", "Present")
	mark(t, svc, "R2", "2024-01-01", "Absent")
	// legacy free-text row written before statuses were constrained
	store.records = append(store.records, models.Attendance{StudentID: "R2", Date: "2024-01-01", Status: "Late"})

	report, _, err := svc.Daily(context.Background(), DailyReportRequest{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalStudents)
	assert.Equal(t, 1, report.Present)
	assert.Equal(t, 2, report.Absent)
	assert.Equal(t, report.TotalStudents, report.Present+report.Absent)
	assert.Equal(t, "33.33%", report.AttendancePercentage)
}

func TestAttendanceServiceDailyEmptyAndInvalid(t *testing.T) {
	svc, _ := newAttendanceFixture(nil)

	report, _, err := svc.Daily(context.Background(), DailyReportRequest{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalStudents)
	assert.Equal(t, "0.00%", report.AttendancePercentage)

	_, _, err = svc.Daily(context.Background(), DailyReportRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
}

func TestAttendanceServiceStorageError(t *testing.T) {
	svc, store := newAttendanceFixture(nil)
	store.err = errors.New("pq: relation does not exist")

	_, _, err := svc.Daily(context.Background(), DailyReportRequest{Date: "2024-01-01"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.NotContains(t, appErr.Message, "relation")
}

func TestAttendanceServiceCachesAndInvalidates(t *testing.T) {
	repo := newMemoryCache()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc, store := newAttendanceFixture(cache)
	ctx := context.Background()
	mark(t, svc, "R1", "2024-01-01", "Present")

	first, cached, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)
	assert.False(t, cached)
	_, cached, err = svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, store.queries)

	_, _, err = svc.Daily(ctx, DailyReportRequest{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"report:daily:2024-01-01", "report:student:R1::"}, repo.keys())

	mark(t, svc, "R1", "2024-01-02", "Absent")
	assert.Equal(t, []string{"report:daily:2024-01-01"}, repo.keys())

	second, cached, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, first.TotalDays)
	assert.Equal(t, 2, second.TotalDays)
}

func TestAttendanceServiceInvalidatesRollNumbersWithGlobCharacters(t *testing.T) {
	for _, rollNo := range []string{"R*1", "A[1]", "Q?7", `B\2`, "C:3"} {
		t.Run(rollNo, func(t *testing.T) {
			repo := newMemoryCache()
			cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
			svc, store := newAttendanceFixture(cache)
			store.students = append(store.students, models.Student{RollNo: rollNo, Department: "CS"})
			ctx := context.Background()

			mark(t, svc, rollNo, "2024-01-01", "Present")
			_, cached, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: rollNo})
			require.NoError(t, err)
			assert.False(t, cached)
			_, cached, err = svc.StudentReport(ctx, StudentReportRequest{RollNo: rollNo})
			require.NoError(t, err)
			require.True(t, cached)

			mark(t, svc, rollNo, "2024-01-02", "Absent")
			assert.Empty(t, repo.keys())

			report, cached, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: rollNo})
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, 2, report.TotalDays)
			assert.Equal(t, 1, report.PresentDays)
		})
	}
}

func TestAttendanceServiceInvalidationLeavesOtherStudentsCached(t *testing.T) {
	repo := newMemoryCache()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc, store := newAttendanceFixture(cache)
	store.students = append(store.students, models.Student{RollNo: "R*", Department: "CS"})
	ctx := context.Background()

	mark(t, svc, "R1", "2024-01-01", "Present")
	_, _, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)

	mark(t, svc, "R*", "2024-01-01", "Present")
	_, cached, err := svc.StudentReport(ctx, StudentReportRequest{RollNo: "R1"})
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestCacheKeySegmentsStayDistinct(t *testing.T) {
	assert.Equal(t, "report:student:R*1:2024-01-01:", cacheKey("student", "R*1", "2024-01-01", ""))
	assert.NotEqual(t, cacheKey("student", "a:b"), cacheKey("student", "a%3Ab"))
	assert.Equal(t, `report:student:R\*1`, cachePattern("student", "R*1"))
}
