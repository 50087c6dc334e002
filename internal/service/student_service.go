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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	RollNo     string `json:"roll_no" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

func (r *CreateStudentRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.RollNo = strings.TrimSpace(r.RollNo)
	r.Department = strings.TrimSpace(r.Department)
	r.Email = strings.TrimSpace(r.Email)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: newValidator(validate), metrics: metrics, logger: logger}
}

// List returns the students matching every supplied filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	filter.Department = strings.TrimSpace(filter.Department)
	filter.RollNo = strings.TrimSpace(filter.RollNo)

	start := time.Now()
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	s.metrics.ObserveDBQuery("students_list", time.Since(start))
	return students, nil
}

// Create registers a new student. Uniqueness of roll_no and email is
// enforced by storage and reported as a conflict.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{
		Name:       req.Name,
		RollNo:     req.RollNo,
		Department: req.Department,
		Email:      req.Email,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, duplicateStudentMessage(err))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("roll_no", student.RollNo))
	return student, nil
}

func duplicateStudentMessage(err error) string {
	constraint := database.ConstraintName(err)
	switch {
	case strings.Contains(constraint, "roll_no"):
		return "student with this roll_no already exists"
	case strings.Contains(constraint, "email"):
		return "student with this email already exists"
	default:
		return "student already exists"
	}
}
