package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleetreserve/internal/auth"
	"fleetreserve/internal/db"
	"fleetreserve/internal/entities"
	"fleetreserve/internal/httperrors"
	"fleetreserve/internal/repository"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*entities.UserResponse, string, error)
	Login(ctx context.Context, email, password string) (*entities.UserResponse, string, error)
	Profile(ctx context.Context, userID string) (*entities.UserResponse, error)
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*entities.UserResponse, string, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", httperrors.Validation("Email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &db.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return userToResponse(user), token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entities.UserResponse, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", httperrors.Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", httperrors.Unauthorized("Invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return userToResponse(user), token, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*entities.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, httperrors.NotFound("User not found")
	}
	return userToResponse(user), nil
}

func userToResponse(user *db.User) *entities.UserResponse {
	return &entities.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}
