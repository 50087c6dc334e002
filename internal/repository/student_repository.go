package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-api/internal/models"
)

const studentColumns = "id, name, roll_no, department, email, created_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching every supplied filter. Empty filters are skipped.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query, args := buildStudentListQuery(filter)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func buildStudentListQuery(filter models.StudentFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.RollNo != "" {
		args = append(args, filter.RollNo)
		conditions = append(conditions, fmt.Sprintf("roll_no = $%d", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY id", studentColumns, strings.Join(conditions, " AND "))
	return query, args
}

// ExistsByRollNo checks whether a student with the roll number exists.
func (r *StudentRepository) ExistsByRollNo(ctx context.Context, rollNo string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE roll_no = $1 LIMIT 1", rollNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check roll_no: %w", err)
	}
	return true, nil
}

// Create inserts a new student and fills in the storage-assigned fields.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (name, roll_no, department, email)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, student.Name, student.RollNo, student.Department, student.Email)
	if err := row.Scan(&student.ID, &student.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
