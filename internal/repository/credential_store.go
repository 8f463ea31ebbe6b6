package repository

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CredentialStore exposes the login view of the user repository.
type CredentialStore struct {
	users UserRepository
}

// NewCredentialStore wraps a user repository.
func NewCredentialStore(users UserRepository) *CredentialStore {
	return &CredentialStore{users: users}
}

// FindByEmail returns the credential for email or domain.ErrNotFound.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return domain.CredentialOf(user), nil
}

// FindByID returns the credential for a subject or domain.ErrNotFound.
func (s *CredentialStore) FindByID(ctx context.Context, id domain.SubjectID) (*domain.Credential, error) {
	user, err := s.users.GetByID(ctx, string(id))
	if err != nil {
		return nil, err
	}
	return domain.CredentialOf(user), nil
}
