package helpers

import (
	"errors"
	"fmt"

	"secure-dashboard/models"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordTooLong = errors.New("password exceeds bcrypt input limit")

// PasswordHasher wraps bcrypt at a fixed work factor. It keeps a hash of a
// random secret so that lookups for unknown users cost the same as real ones.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]", models.ErrConfiguration, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(GenerateID(16)), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: building password hasher: %v", models.ErrConfiguration, err)
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

func (h *PasswordHasher) Cost() int {
	return h.cost
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > models.MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Matches reports whether password matches hash. Hashes at any work factor
// other than the hasher's, unparsable hashes and over-long passwords never
// match, but still pay for one comparison at the hasher's cost so every
// failure takes the same time.
func (h *PasswordHasher) Matches(hash, password string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != h.cost || len(password) > models.MaxPasswordBytes {
		h.Burn(password)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Burn performs a comparison against the internal dummy hash and discards
// the result.
func (h *PasswordHasher) Burn(password string) {
	if len(password) > models.MaxPasswordBytes {
		password = password[:models.MaxPasswordBytes]
	}
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

// CheckHash validates a stored hash and requires it to use the hasher's
// work factor.
func (h *PasswordHasher) CheckHash(hash string) error {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return fmt.Errorf("%w: invalid bcrypt hash: %v", models.ErrConfiguration, err)
	}
	if cost != h.cost {
		return fmt.Errorf("%w: bcrypt hash has cost %d, want %d", models.ErrConfiguration, cost, h.cost)
	}
	return nil
}
