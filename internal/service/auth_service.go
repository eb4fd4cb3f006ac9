package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"travelblog/internal/auth"
	apperrors "travelblog/internal/errors"
	"travelblog/internal/model"
	"travelblog/internal/repository"
)

const bcryptCost = 10

// AuthService verifies credentials and manages user accounts.
type AuthService interface {
	Verify(ctx context.Context, email, password string) (*auth.Identity, error)
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	ProvisionAdmin(ctx context.Context, email, password, name string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Verify checks an email/password pair. It never writes.
func (s *authService) Verify(ctx context.Context, email, password string) (*auth.Identity, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return IdentityOf(user), nil
}

// Register creates a USER account with a hashed password.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	// A concurrent signup can pass the lookup above; the unique index decides.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ProvisionAdmin creates the admin account, or promotes and resets the
// password of an existing account with the same email.
func (s *authService) ProvisionAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", apperrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("find admin: %w", err)
	}

	user.PasswordHash = string(hash)
	user.Role = model.RoleAdmin
	if name != "" {
		user.Name = name
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("promote admin: %w", err)
	}
	return user, nil
}

// IdentityOf builds the session identity for a user. An unset role reads as USER.
func IdentityOf(user *model.User) *auth.Identity {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}
	return &auth.Identity{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  role,
	}
}
