package service

import (
	"context"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/logger"
	usermodel "github.com/tasknest/tasknest/internal/models/user"
	"github.com/tasknest/tasknest/internal/storage"
	"github.com/tasknest/tasknest/internal/taskerr"
	"github.com/tasknest/tasknest/internal/validation"
)

type AuthService struct {
	users      storage.UserStore
	jwtManager *auth.JWTManager
	log        *logger.Logger
}

func NewAuthService(users storage.UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		log:        logger.New("auth-service"),
	}
}

type AuthResult struct {
	Token string
	User  usermodel.Public
}

func (s *AuthService) Signup(ctx context.Context, req usermodel.SignupRequest) (*AuthResult, error) {
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return nil, taskerr.Validation("All fields are required")
	}

	if !validation.ValidateEmail(req.Email) {
		return nil, taskerr.Validation("Invalid email format")
	}

	if !validation.ValidatePassword(req.Password) {
		return nil, taskerr.Validation("Password must be at least 8 characters with one letter, one number, and one special character")
	}

	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, taskerr.Internal(err)
	}
	if existing != nil {
		return nil, taskerr.Conflict("User already exists")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, taskerr.Internal(err)
	}

	created, err := s.users.CreateUser(ctx, req.Email, req.FullName, passwordHash)
	if err != nil {
		return nil, taskerr.Internal(err)
	}

	token, _, err := s.jwtManager.GenerateToken(created.ID)
	if err != nil {
		return nil, taskerr.Internal(err)
	}

	s.log.Info("User %d registered", created.ID)

	return &AuthResult{Token: token, User: created.Public()}, nil
}

// Login fails identically for an unknown email and a wrong password
// so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, req usermodel.SigninRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, taskerr.Validation("Email and password are required")
	}

	found, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, taskerr.Internal(err)
	}
	if found == nil {
		return nil, taskerr.InvalidCredentials()
	}

	if err := auth.CheckPassword(found.PasswordHash, req.Password); err != nil {
		return nil, taskerr.InvalidCredentials()
	}

	token, _, err := s.jwtManager.GenerateToken(found.ID)
	if err != nil {
		return nil, taskerr.Internal(err)
	}

	return &AuthResult{Token: token, User: found.Public()}, nil
}
