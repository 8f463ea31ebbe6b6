package domain

import "time"

// Gender values accepted on registration.
type Gender string

const (
	GenderFemale      Gender = "f"
	GenderMale        Gender = "m"
	GenderUnspecified Gender = "u"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderUnspecified:
		return true
	}
	return false
}

// User is the domain model for blog authors.
type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	Age          int
	Gender       Gender
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
