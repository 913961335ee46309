package domain

import "errors"

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "login successful"
	MessageSuccessLogout   = "logout successful"
	MessageSuccessGetUser  = "user retrieved successfully"
	MessageSuccessSession  = "session retrieved successfully"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "failed to login"
	MessageFailedLogout   = "failed to logout"
	MessageFailedGetUser  = "failed to get user"
	MessageFailedSession  = "failed to get session"

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionClosed      = errors.New("session closed")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Name     string `json:"name" validate:"omitempty,max=100"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	AuthResponse struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
		UserID    string `json:"user_id"`
		Email     string `json:"email"`
	}

	UserResponse struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}

	SessionResponse struct {
		SessionID     string   `json:"session_id"`
		UserID        string   `json:"user_id"`
		OpenedAt      string   `json:"opened_at"`
		Subscriptions []string `json:"subscriptions"`
		Cached        []string `json:"cached"`
	}
)
