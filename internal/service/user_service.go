package service

import (
	"context"
	"fmt"

	"github.com/projecthub/project-hub-backend/internal/config"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// User Service
// ============================================

type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type UserService interface {
	List(ctx context.Context, tenantID string) ([]*repository.User, error)
	Get(ctx context.Context, tenantID, id string) (*repository.User, error)
	Create(ctx context.Context, tenantID, actorRole string, in CreateUserInput) (*repository.User, error)
	Me(ctx context.Context, userID string) (*repository.User, error)
}

type userService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

func NewUserService(cfg *config.Config, userRepo repository.UserRepository) UserService {
	return &userService{cfg: cfg, userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, tenantID string) ([]*repository.User, error) {
	return s.userRepo.FindByTenant(ctx, tenantID)
}

// Get returns a user of the tenant. Users of other tenants are reported as
// not found.
func (s *userService) Get(ctx context.Context, tenantID, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, tenantID, actorRole string, in CreateUserInput) (*repository.User, error) {
	if actorRole != types.RoleAdmin {
		return nil, ErrForbidden
	}
	if in.Role == "" {
		in.Role = types.RoleDeveloper
	}
	if !types.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := hashPassword(s.cfg.BcryptCost, in.Password)
	if err != nil {
		return nil, err
	}

	user := &repository.User{
		TenantID:     tenantID,
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
