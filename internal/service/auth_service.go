package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/projecthub/project-hub-backend/internal/config"
	"github.com/projecthub/project-hub-backend/internal/logger"
	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

// ============================================
// Auth Service
// ============================================

// Claims is the identity carried by an access token.
type Claims struct {
	UserID   string
	TenantID string
	Email    string
	Role     string
}

// AuthResult is returned by every operation that issues tokens.
type AuthResult struct {
	User         *repository.User
	Company      *repository.Company
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RegisterCompanyInput struct {
	CompanyName string
	Website     *string
	FirstName   string
	LastName    string
	Email       string
	Password    string
}

type AuthService interface {
	RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(token string) (*Claims, error)
	HashPassword(password string) (string, error)
}

type authService struct {
	cfg         *config.Config
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

func NewAuthService(cfg *config.Config, companyRepo repository.CompanyRepository, userRepo repository.UserRepository) AuthService {
	return &authService{cfg: cfg, companyRepo: companyRepo, userRepo: userRepo}
}

func (s *authService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	company := &repository.Company{Name: strings.TrimSpace(in.CompanyName), Website: in.Website}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	user := &repository.User{
		TenantID:     company.ID,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         types.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A company without its admin is unreachable, so roll it back.
		if delErr := s.companyRepo.Delete(ctx, company.ID); delErr != nil {
			logger.Get(ctx).Error().Err(delErr).Str("tenant_id", company.ID).Msg("❌ Failed to remove orphaned company")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Get(ctx).Info().Str("tenant_id", company.ID).Str("user_id", user.ID).Msg("🏢 Company registered")

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	result.Company = company
	return result, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Get(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("⚠️ Failed to record last login")
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token: the old one is consumed and a new
// pair is issued.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	rt, err := s.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil || rt == nil {
		return nil, ErrInvalidToken
	}

	if err := s.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, rt.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	claims.UserID, _ = mc["sub"].(string)
	claims.TenantID, _ = mc["tenantId"].(string)
	claims.Email, _ = mc["email"].(string)
	claims.Role, _ = mc["role"].(string)
	if claims.UserID == "" || claims.TenantID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) HashPassword(password string) (string, error) {
	return hashPassword(s.cfg.BcryptCost, password)
}

func hashPassword(cost int, password string) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) issueTokens(ctx context.Context, user *repository.User) (*AuthResult, error) {
	now := time.Now()
	expiry := time.Hour * time.Duration(s.cfg.JWTExpiry)

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"tenantId": user.TenantID,
		"email":    user.Email,
		"role":     user.Role,
		"exp":      now.Add(expiry).Unix(),
		"iat":      now.Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rt := &repository.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry)),
	}
	if err := s.userRepo.SaveRefreshToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessTokenString,
		RefreshToken: rt.Token,
		ExpiresIn:    int64(expiry.Seconds()),
	}, nil
}
