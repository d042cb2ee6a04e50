package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/carrental/internal/auth/jwt"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

// RegisterRequest is the public self-registration body. It always yields a CUSTOMER.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateUserRequest is used by administrators to provision staff and admin accounts.
type CreateUserRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=64"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role" validate:"required,oneof=ADMIN STAFF CUSTOMER"`
	HubID    *int64      `json:"hubId"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token  string      `json:"token"`
	Role   domain.Role `json:"role"`
	UserID int64       `json:"userId"`
	HubID  *int64      `json:"hubId,omitempty"`
}

type AuthService struct {
	users    repository.UserRepository
	secret   string
	tokenTTL time.Duration
	log      logger.Logger
	validate *validator.Validate
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration, log logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
		validate: validator.New(),
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}
	return s.create(ctx, &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.RoleCustomer,
	}, req.Password)
}

func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.Role = domain.Role(strings.ToUpper(string(req.Role)))
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}
	return s.create(ctx, &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		HubID:    req.HubID,
	}, req.Password)
}

// EnsureAdmin creates an ADMIN account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get user: %w", err)
	}

	_, err = s.CreateUser(ctx, CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	return err
}

func (s *AuthService) create(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hashed)

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.Issue(s.secret, u.ID, string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, Role: u.Role, UserID: u.ID, HubID: u.HubID}, nil
}

var _ AuthUseCase = (*AuthService)(nil)
