package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-middleware"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// Compared against on unknown usernames so a miss costs as much as a
// wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, _ := utils.HashPassword("not-a-real-password")
	return hash
})

type UserService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(users repositories.UserRepository, jwtSecret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Signup stores a new user with a bcrypt-hashed password. Usernames are
// unique; a taken one yields utils.ErrConflict.
func (s *UserService) Signup(ctx context.Context, req dtos.SignupRequest) (*dtos.UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, utils.Conflictf("user %q already exists", username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        normalizeRoles(req.Roles),
		CreatedAt:    s.now().UTC(),
	}
	// The unique index still catches a concurrent signup for the same name.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	utils.Logger.WithField("username", u.Username).Info("User signed up")
	return toUserResponse(u), nil
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		_ = utils.CheckPasswordHash(req.Password, dummyPasswordHash())
		utils.Logger.WithField("username", username).Debug("Login for unknown user")
		return nil, utils.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, u.PasswordHash) {
		utils.Logger.WithField("username", username).Debug("Login with wrong password")
		return nil, utils.ErrInvalidCredentials
	}

	token, expiresAt, err := middleware.IssueToken(s.jwtSecret, u.Username, u.Roles, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dtos.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
	}, nil
}

// normalizeRoles upper-cases, trims and dedupes roles, defaulting to USER.
func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if _, ok := seen[r]; ok || r == "" {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, models.DefaultUserRole)
	}
	return out
}

func toUserResponse(u *models.User) *dtos.UserResponse {
	return &dtos.UserResponse{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
	}
}
