package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
)

// Claims is the verified payload of an access token.
type Claims struct {
	Subject   domain.SubjectID
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]string
}

// tokenClaims is the JWT wire form of Claims.
type tokenClaims struct {
	Extra map[string]string `json:"ext,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for iat/exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager signing with secret.
func NewTokenManager(secret []byte, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Issue signs claims with iat=now and exp=now+ttl and returns the compact
// token with its expiry, truncated to the second as encoded.
func (tm *TokenManager) Issue(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := tm.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))
	wire := &tokenClaims{
		Extra: claims.Extra,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   string(claims.Subject),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wire)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return signed, expiresAt.Time, nil
}

// Verify checks the signature, then expiry, and returns the decoded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, tm.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	wire, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if wire.Subject == "" || wire.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing sub or iat", ErrMalformed)
	}

	return &Claims{
		Subject:   domain.SubjectID(wire.Subject),
		IssuedAt:  wire.IssuedAt.Time,
		ExpiresAt: wire.ExpiresAt.Time,
		Extra:     wire.Extra,
	}, nil
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return tm.secret, nil
}

// classifyTokenError maps jwt library errors onto the token error set.
// golang-jwt verifies the signature before validating claims, so an expired
// error is only ever reported for an authentic token.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
