package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-middleware"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

var testSecret = []byte("test-secret")

type failingRepo struct{}

func (failingRepo) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("mongo down")
}
func (failingRepo) Create(context.Context, *models.User) error { return errors.New("mongo down") }

func newTestService(t *testing.T) (*UserService, *repositories.MemoryUserRepository) {
	t.Helper()
	repo := repositories.NewMemoryUserRepository()
	return NewUserService(repo, testSecret, time.Hour), repo
}

func TestSignup_DefaultsRoleAndHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, dtos.SignupRequest{Username: "  alice@example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Username)
	require.Equal(t, []string{models.DefaultUserRole}, user.Roles)
	require.NotEmpty(t, user.ID)
	require.False(t, user.CreatedAt.IsZero())

	stored, err := repo.GetByUsername(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEqual(t, "correct-horse", stored.PasswordHash)
	require.True(t, utils.CheckPasswordHash("correct-horse", stored.PasswordHash))
}

func TestSignup_NormalizesRoles(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Signup(context.Background(), dtos.SignupRequest{
		Username: "bob",
		Password: "correct-horse",
		Roles:    []string{"admin", " ADMIN", "user"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ADMIN", "USER"}, user.Roles)
}

func TestSignup_DuplicateUsernameIsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, dtos.SignupRequest{Username: "carol", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, dtos.SignupRequest{Username: "carol", Password: "another-pass"})
	require.ErrorIs(t, err, utils.ErrConflict)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		req   dtos.SignupRequest
		field string
	}{
		{"blank username", dtos.SignupRequest{Username: "   ", Password: "correct-horse"}, "username"},
		{"short password", dtos.SignupRequest{Username: "dave", Password: "short"}, "password"},
		{"blank role", dtos.SignupRequest{Username: "dave", Password: "correct-horse", Roles: []string{" "}}, "roles[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			var valErr *utils.ValidationError
			require.ErrorAs(t, err, &valErr)
			require.Len(t, valErr.Details, 1)
			require.Equal(t, tc.field, valErr.Details[0].Field)
		})
	}
}

func TestSignup_RepositoryFailure(t *testing.T) {
	svc := NewUserService(failingRepo{}, testSecret, time.Hour)
	_, err := svc.Signup(context.Background(), dtos.SignupRequest{Username: "erin", Password: "correct-horse"})
	require.Error(t, err)
	require.NotErrorIs(t, err, utils.ErrConflict)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, dtos.SignupRequest{Username: "frank", Password: "correct-horse", Roles: []string{"ADMIN"}})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dtos.LoginRequest{Username: "frank", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := middleware.ValidateToken(resp.AccessToken, testSecret)
	require.NoError(t, err)
	require.Equal(t, "frank", claims.Subject)
	require.Equal(t, []string{"ADMIN"}, claims.Roles)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, dtos.SignupRequest{Username: "grace", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dtos.LoginRequest{Username: "grace", Password: "wrong-password"})
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dtos.LoginRequest{Username: "nobody", Password: "correct-horse"})
	require.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Login(context.Background(), dtos.LoginRequest{Username: "grace"})
	var valErr *utils.ValidationError
	require.ErrorAs(t, err, &valErr)
}
