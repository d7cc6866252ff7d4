package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskflow/domain"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = domain.MaxPasswordBytes

// PasswordHasher hashes passwords with bcrypt. The salt and cost are embedded in every hash.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher builds a hasher with the given bcrypt cost, clamped to bcrypt's range.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskflow-timing-equalizer"), cost)
	if err != nil {
		return nil, err
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares in constant time. A malformed hash costs the same as a mismatch.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		h.Burn(plain)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Burn runs a comparison whose result is discarded, so unknown accounts take as
// long to reject as wrong passwords.
func (h *PasswordHasher) Burn(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
