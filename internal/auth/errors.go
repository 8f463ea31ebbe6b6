package auth

import "errors"

// Token verification failures.
var (
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrEncoding     = errors.New("token encoding failed")
)

// Authenticator failures. Callers branch on these with errors.Is.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("access token expired")
)

// IsCredentialError reports whether err is a login failure caused by the
// presented credentials. Both variants must render identically to clients.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) || errors.Is(err, ErrInvalidPassword)
}
