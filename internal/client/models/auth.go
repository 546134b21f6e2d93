package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by both /auth/login and /auth/register.
type AuthResult struct {
	Token   string      `json:"token" validate:"required"`
	User    UserProfile `json:"user"`
	Message string      `json:"message,omitempty"`
}
