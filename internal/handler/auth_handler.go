package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgp/sgp-backend/internal/middleware"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/response"
	"github.com/sgp/sgp-backend/internal/service"
	"github.com/sgp/sgp-backend/internal/validator"
)

// adminService is the part of service.AdminService used by AuthHandler.
type adminService interface {
	Login(ctx context.Context, email, password string) (*model.AdminLoginResponse, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	adminService adminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminService adminService) *AuthHandler {
	return &AuthHandler{adminService: adminService}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates email + password, returns JWT with permissions.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
// Returns the identity and permissions carried by the current token.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin_id":    claims.UserID,
		"role_id":     claims.RoleID,
		"permissions": claims.Permissions,
	})
}
