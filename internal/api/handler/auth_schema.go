package handler

import "github.com/storehouse/access-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=user admin"`
}

// userView is the public projection of a user: never the password hash.
type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	// Token is only populated on signin responses.
	Token string `json:"token,omitempty"`
}

// authResponse wraps the user view the way clients consume it: {"user": {...}}.
type authResponse struct {
	User userView `json:"user"`
}

func toUserView(u *domain.User, token string) userView {
	return userView{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		Token:    token,
	}
}
