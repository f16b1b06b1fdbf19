package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/apperror"
	"sneakershop/models"
	"sneakershop/repositories"
	"sneakershop/utils"
)

const invalidCredentials = "Invalid credentials"

// dummyHash is compared against when the email is unknown so that both
// login failure paths cost one bcrypt comparison.
var dummyHash, _ = utils.HashPassword("sneakershop-dummy-password")

type AuthService struct {
	users repositories.UserStore
	jwt   *utils.JWT
	now   func() time.Time
}

func NewAuthService(users repositories.UserStore, jwt *utils.JWT) *AuthService {
	return &AuthService{users: users, jwt: jwt, now: time.Now}
}

// Register creates a non-admin user. It never issues a token.
func (s *AuthService) Register(ctx context.Context, in models.UserInput) (*models.User, error) {
	return s.create(ctx, in, false)
}

func (s *AuthService) create(ctx context.Context, in models.UserInput, admin bool) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in, "Invalid registration data"); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Server error during registration", err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      admin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, apperror.Internal("Server error during registration", err)
	}

	log.Infow("User registered", "user_id", user.ID, "admin", admin)
	return user, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResp, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Auth(invalidCredentials)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Internal("Server error during login", err)
		}
		utils.CheckPassword(dummyHash, password)
		return nil, apperror.Auth(invalidCredentials)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.Auth(invalidCredentials)
	}

	token, err := s.jwt.GenerateJWTToken(models.Identity{UserID: user.ID, IsAdmin: user.IsAdmin})
	if err != nil {
		return nil, apperror.Internal("Token generation failed", err)
	}

	return &models.LoginResp{Token: token, User: *user}, nil
}

// Verify returns the identity embedded in a bearer token.
func (s *AuthService) Verify(token string) (models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return models.Identity{}, apperror.Auth("Access denied")
	}
	id, err := s.jwt.ParseJWTToken(token)
	if err != nil {
		return models.Identity{}, apperror.Auth("Invalid or expired token")
	}
	return id, nil
}

// SeedAdmin creates an admin account unless the email is already taken.
// It reports whether a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.create(ctx, models.UserInput{Email: email, Password: password}, true)
	if err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
