package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/observability"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AuthService exposes login to the HTTP layer.
type AuthService struct {
	authenticator *auth.Authenticator
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(authenticator *auth.Authenticator, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{authenticator: authenticator, metrics: metrics, logger: logger}
}

// Login exchanges credentials for an access token. Unknown emails and wrong
// passwords produce the same client-facing error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	res, err := s.authenticator.Login(ctx, email, password)
	switch {
	case err == nil:
		s.metrics.RecordLogin("ok")
		return res, nil
	case auth.IsCredentialError(err):
		s.metrics.RecordLogin("rejected")
		return nil, apperrors.NewUnauthorized("invalid credentials")
	default:
		s.metrics.RecordLogin("error")
		s.logger.Error("login failed", zap.Error(err))
		return nil, err
	}
}
