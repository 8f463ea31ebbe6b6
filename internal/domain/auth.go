package domain

// SubjectID identifies an authenticated principal. For this service it is
// always a user ID.
type SubjectID string

// Credential is the slice of a user record needed to log in.
type Credential struct {
	SubjectID    SubjectID
	Email        string
	PasswordHash string
}

// CredentialOf projects a user onto its credential.
func CredentialOf(u *User) *Credential {
	return &Credential{
		SubjectID:    SubjectID(u.ID),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}
