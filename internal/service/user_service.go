package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/attendance-api/internal/models"
	"github.com/noah-isme/attendance-api/pkg/database"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
}

// CreateAdminRequest represents payload for registering a college admin.
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	College  string `json:"college" validate:"required"`
}

// UserService manages user accounts, including admins.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: newValidator(validate), logger: logger, hashCost: bcrypt.DefaultCost}
}

// CreateAdmin stores a new admin account with a hashed password.
func (s *UserService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.Admin, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.College = strings.TrimSpace(req.College)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "All fields are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		College:      req.College,
		Role:         models.RoleAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	s.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("college", user.College))
	return &models.Admin{Email: user.Email, College: user.College}, nil
}

// ListAdmins returns every admin account without credentials.
func (s *UserService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	admins := make([]models.Admin, 0, len(users))
	for _, user := range users {
		admins = append(admins, models.Admin{Email: user.Email, College: user.College})
	}
	return admins, nil
}

// SeedTestUser inserts a plain user for local testing unless the email is taken.
func (s *UserService) SeedTestUser(ctx context.Context, name, email string) error {
	user := &models.User{Name: name, Email: strings.ToLower(strings.TrimSpace(email)), Role: models.RoleUser}
	inserted, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		return err
	}
	s.logger.Info("test user seeded", zap.String("email", user.Email), zap.Bool("inserted", inserted))
	return nil
}
