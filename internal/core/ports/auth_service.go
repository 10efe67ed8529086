package ports

import (
	"context"

	"github.com/storehouse/access-api/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	// Signin verifies the password and issues a token. An unknown username and
	// a wrong password both yield domain.ErrInvalidCredentials.
	Signin(ctx context.Context, username, password string) (*domain.User, string, error)
	// Authenticate resolves a parsed Authorization credential into a principal.
	Authenticate(ctx context.Context, cred domain.Credential) (domain.Principal, error)
	ListUsernames(ctx context.Context) ([]string, error)
}
