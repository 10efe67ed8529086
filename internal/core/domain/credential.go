package domain

import (
	"encoding/base64"
	"strings"
)

// Credential is the tagged union of the authentication presentations carried
// by an Authorization header. Exactly two schemes exist; anything else is
// malformed.
type Credential interface {
	credential()
}

// BasicCredential carries a username/password pair. Resolution performs a
// full password re-verification against the credential store on every request.
type BasicCredential struct {
	Username string
	Password string
}

// BearerCredential carries a signed token. Resolution is a pure signature and
// expiry check with no store lookup.
type BearerCredential struct {
	Token string
}

func (BasicCredential) credential()  {}
func (BearerCredential) credential() {}

// ParseAuthorization dispatches an Authorization header value into the
// credential union.
//
//	""                          → ErrUnauthenticated
//	"Basic <base64(user:pass)>" → BasicCredential (ErrMalformedCredentials on bad encoding)
//	"Bearer <token>"            → BearerCredential
//	anything else               → ErrMalformedCredentials
func ParseAuthorization(header string) (Credential, error) {
	if header == "" {
		return nil, ErrUnauthenticated
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return nil, ErrMalformedCredentials
	}

	switch {
	case strings.EqualFold(parts[0], "basic"):
		raw, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, ErrMalformedCredentials
		}
		username, password, ok := strings.Cut(string(raw), ":")
		if !ok || username == "" {
			return nil, ErrMalformedCredentials
		}
		return BasicCredential{Username: username, Password: password}, nil
	case strings.EqualFold(parts[0], "bearer"):
		if parts[1] == "" {
			return nil, ErrMalformedCredentials
		}
		return BearerCredential{Token: parts[1]}, nil
	default:
		return nil, ErrMalformedCredentials
	}
}
