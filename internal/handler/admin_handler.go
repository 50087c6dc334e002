package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-api/internal/models"
	"github.com/noah-isme/attendance-api/internal/service"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
	"github.com/noah-isme/attendance-api/pkg/response"
)

type adminService interface {
	CreateAdmin(ctx context.Context, req service.CreateAdminRequest) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
}

// AdminHandler manages college admin accounts.
type AdminHandler struct {
	users adminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users adminService) *AdminHandler {
	return &AdminHandler{users: users}
}

// Create godoc
// @Summary Register a college admin
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Admin payload"
// @Success 201 {object} AdminCreatedResponse
// @Failure 409 {object} response.ErrorEnvelope
// @Failure 422 {object} response.ErrorEnvelope
// @Router /api/admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "All fields are required"))
		return
	}
	if _, err := h.users.CreateAdmin(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, AdminCreatedResponse{Success: true, Message: "Admin created successfully!"})
}

// List godoc
// @Summary List college admins
// @Tags Admins
// @Produce json
// @Success 200 {array} models.Admin
// @Router /api/admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.users.ListAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admins)
}

// AdminCreatedResponse acknowledges a new admin.
type AdminCreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
