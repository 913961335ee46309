package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/internal/utils"
	"stillhouse/pkg/jwt"
	"stillhouse/pkg/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		// Logout revokes the token's session until the token would have
		// expired and tears down its realtime subscriptions.
		Logout(ctx context.Context, sessionID string, expiresAt time.Time) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetEmail(ctx context.Context, userID string) (string, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		denylist       jwt.Denylist
		sessions       *session.Manager
		logger         *zap.Logger
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	denylist jwt.Denylist,
	sessions *session.Manager,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		denylist:       denylist,
		sessions:       sessions,
		logger:         logger,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if exists {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashed,
		Name:     req.Name,
		Role:     domain.RoleUser,
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AuthResponse{}, domain.ErrEmailAlreadyExists
		}
		return domain.AuthResponse{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issue(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}
	return s.issue(user), nil
}

func (s *userService) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if err := s.denylist.Revoke(ctx, sessionID, expiresAt); err != nil {
		return err
	}
	s.sessions.Close(sessionID)
	return nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return domain.UserResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

func (s *userService) GetEmail(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *userService) issue(user *entities.User) domain.AuthResponse {
	token, sessionID := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	s.sessions.Open(sessionID, user.ID.String(), time.Now().Add(jwt.TokenTTL))
	return domain.AuthResponse{
		Token:     token,
		SessionID: sessionID,
		UserID:    user.ID.String(),
		Email:     user.Email,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
