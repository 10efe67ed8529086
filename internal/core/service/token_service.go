package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storehouse/access-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the signed payload: the user's identity and role at issuance
// time plus the registered time bounds.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenService issues and verifies stateless HS256-signed bearer tokens.
// The signing secret is process-wide, injected at startup, and never mutated.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the principal's claims, valid for the
// configured TTL.
func (s *TokenService) Issue(p domain.Principal) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: p.Username,
		Role:     string(p.Role),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature, structure, and expiry, and returns the embedded
// principal. It performs no store lookup: validity is purely cryptographic.
// Any failure collapses to domain.ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (domain.Principal, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return domain.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
	}, nil
}
