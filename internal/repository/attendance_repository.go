package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-api/internal/models"
)

const attendanceColumns = "id, student_id, date, status, created_at"

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create appends an attendance record. The student_id foreign key rejects
// unknown roll numbers.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	const query = `INSERT INTO attendance (student_id, date, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, record.StudentID, record.Date, record.Status)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// ListByStudent returns a student's records, optionally bounded by date.
// Either bound may be supplied alone; both form an inclusive range.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	query, args := buildStudentAttendanceQuery(filter)
	records := make([]models.Attendance, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return records, nil
}

func buildStudentAttendanceQuery(filter models.AttendanceFilter) (string, []interface{}) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{filter.StudentID}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE %s ORDER BY date, id", attendanceColumns, strings.Join(conditions, " AND "))
	return query, args
}

// ListByDate returns every record marked for the given date.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]models.Attendance, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE date = $1 ORDER BY id", attendanceColumns)
	records := make([]models.Attendance, 0)
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list daily attendance: %w", err)
	}
	return records, nil
}
