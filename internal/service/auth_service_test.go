package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/project-hub-backend/internal/repository"
	"github.com/projecthub/project-hub-backend/internal/types"
)

func registerAcme(t *testing.T, f *fixture) *AuthResult {
	t.Helper()
	res, err := f.services.Auth.RegisterCompany(context.Background(), RegisterCompanyInput{
		CompanyName: "  Acme Ltd ",
		FirstName:   "Ada",
		LastName:    "Admin",
		Email:       "ada@acme.test",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterCompany(t *testing.T) {
	f := newFixture(t)
	res := registerAcme(t, f)

	require.NotNil(t, res.Company)
	assert.Equal(t, "Acme Ltd", res.Company.Name)
	assert.Equal(t, res.Company.ID, res.User.TenantID)
	assert.Equal(t, types.RoleAdmin, res.User.Role)
	assert.NotEqual(t, "s3cret-pass", res.User.PasswordHash)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, int64(24*3600), res.ExpiresIn)

	_, err := f.services.Auth.RegisterCompany(context.Background(), RegisterCompanyInput{
		CompanyName: "Other",
		Email:       "ada@acme.test",
		Password:    "another-pass",
	})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestLoginAndValidateToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := registerAcme(t, f)

	_, err := f.services.Auth.Login(ctx, "ada@acme.test", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.services.Auth.Login(ctx, "nobody@acme.test", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := f.services.Auth.Login(ctx, "ada@acme.test", "s3cret-pass")
	require.NoError(t, err)

	claims, err := f.services.Auth.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, reg.Company.ID, claims.TenantID)
	assert.Equal(t, "ada@acme.test", claims.Email)
	assert.Equal(t, types.RoleAdmin, claims.Role)

	_, err = f.services.Auth.ValidateToken(res.AccessToken + "x")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := testConfig()
	other.JWTSecret = "different-secret"
	foreign := NewAuthService(other, f.repos.CompanyRepo, f.repos.UserRepo)
	_, err = foreign.ValidateToken(res.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := registerAcme(t, f)

	rotated, err := f.services.Auth.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, reg.User.ID, rotated.User.ID)

	_, err = f.services.Auth.RefreshToken(ctx, reg.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken, "a consumed refresh token cannot be reused")

	require.NoError(t, f.services.Auth.Logout(ctx, rotated.RefreshToken))
	_, err = f.services.Auth.RefreshToken(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hashed, err := hashPassword(99, "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, hashed)
}

// failingUserRepo rejects every user insert.
type failingUserRepo struct {
	repository.UserRepository
}

func (failingUserRepo) Create(context.Context, *repository.User) error {
	return errors.New("insert failed")
}

func TestRegisterCompanyRollsBackCompanyWhenUserFails(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	auth := NewAuthService(testConfig(), repos.CompanyRepo, failingUserRepo{repos.UserRepo})

	_, err := auth.RegisterCompany(ctx, RegisterCompanyInput{
		CompanyName: "Acme",
		FirstName:   "Ada",
		LastName:    "Admin",
		Email:       "ada@acme.test",
		Password:    "s3cret-pass",
	})
	require.Error(t, err)

	companies, err := repos.CompanyRepo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)
}
