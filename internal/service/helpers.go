package service

import (
	"errors"
	"net/http"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// notFoundAs turns a store miss into a 404 naming the resource.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

// forbidden renders a denied decision. Missing authentication stays a 401.
func forbidden(decision auth.Decision, message string) error {
	details := map[string]any{"reason": string(decision.Reason)}
	if decision.Reason == auth.ReasonNotAuthenticated {
		return apperrors.NewDomainError("UNAUTHORIZED", "authentication required", http.StatusUnauthorized, details)
	}
	return apperrors.NewDomainError("FORBIDDEN", message, http.StatusForbidden, details)
}
