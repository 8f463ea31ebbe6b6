package auth

import "golang.org/x/crypto/bcrypt"

// maxPasswordBytes is the longest input bcrypt consumes. Longer plaintexts
// would be silently truncated on compare, so they never verify.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a hasher for the given bcrypt cost. Out of range costs
// fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the bcrypt cost used for new hashes.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt encoding of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	return HashPassword(plaintext, h.cost)
}

// Verify reports whether plaintext matches hashed. Malformed hashes never match.
func (h *Hasher) Verify(plaintext, hashed string) bool {
	return ComparePassword(hashed, plaintext) == nil
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if len(plain) > maxPasswordBytes {
		return bcrypt.ErrPasswordTooLong
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
