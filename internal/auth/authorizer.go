package auth

import (
	"errors"

	"github.com/spec-kit/blog-service/internal/domain"
)

// Reason explains an authorization decision.
type Reason string

const (
	ReasonOK               Reason = "OK"
	ReasonNotAuthenticated Reason = "NOT_AUTHENTICATED"
	ReasonNotOwner         Reason = "NOT_OWNER"
	ReasonExpired          Reason = "EXPIRED"
	ReasonMalformed        Reason = "MALFORMED"
)

// Decision is the result of an authorization check. It is computed per
// request and never stored.
type Decision struct {
	Permitted bool
	Reason    Reason
}

func permit() Decision { return Decision{Permitted: true, Reason: ReasonOK} }

func deny(reason Reason) Decision { return Decision{Permitted: false, Reason: reason} }

// Authorizer decides whether an authenticated subject may mutate a resource.
// It never authenticates; callers pass the subject taken from verified Claims.
type Authorizer struct{}

// NewAuthorizer returns an Authorizer.
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// AuthorizeMutation permits update/delete only when the acting subject owns
// the resource.
func (Authorizer) AuthorizeMutation(acting, owner domain.SubjectID) Decision {
	if acting == "" {
		return deny(ReasonNotAuthenticated)
	}
	if acting != owner {
		return deny(ReasonNotOwner)
	}
	return permit()
}

// AuthorizeCreate permits creation for any authenticated subject.
func (Authorizer) AuthorizeCreate(claims *Claims) Decision {
	if claims == nil || claims.Subject == "" {
		return deny(ReasonNotAuthenticated)
	}
	return permit()
}

// DecisionFromError converts a non-nil Authenticate failure into a denial.
func (Authorizer) DecisionFromError(err error) Decision {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return deny(ReasonExpired)
	case errors.Is(err, ErrMalformed):
		return deny(ReasonMalformed)
	default:
		return deny(ReasonNotAuthenticated)
	}
}
