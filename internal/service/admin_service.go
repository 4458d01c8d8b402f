package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/repository"
)

// AdminService handles admin lookup, login and bootstrap.
type AdminService struct {
	adminRepo   *repository.AdminRepository
	roleRepo    *repository.RoleRepository
	authService *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, roleRepo *repository.RoleRepository, authService *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, roleRepo: roleRepo, authService: authService}
}

// Login checks the credentials and issues a token carrying the role permissions.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *AdminService) Login(ctx context.Context, email, password string) (*model.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.authService.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}

	permissions, err := s.roleRepo.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, err
	}

	token, err := s.authService.GenerateAdminToken(admin.ID, admin.RoleID, permissions)
	if err != nil {
		return nil, err
	}

	return &model.AdminLoginResponse{Token: token, Admin: *admin, Permissions: permissions}, nil
}

// Create hashes the password and inserts a new admin.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	return s.adminRepo.Create(ctx, admin)
}
