package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost used in bcrypt mode
const BcryptCost = 12

// PasswordHasher turns a submitted password into the value stored in users.password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PasswordVerifier is implemented by hashers whose stored values can't be matched
// in SQL. Without it, login compares username and password in the query itself.
type PasswordVerifier interface {
	Matches(stored, password string) bool
}

// NewPasswordHasher returns the hasher for the configured mode ("plaintext" or "bcrypt").
func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch strings.ToLower(mode) {
	case "", "plaintext":
		return PlaintextHasher{}, nil
	case "bcrypt":
		return BcryptHasher{Cost: BcryptCost}, nil
	default:
		return nil, fmt.Errorf("unsupported password mode %q", mode)
	}
}

// PlaintextHasher stores passwords as given.
type PlaintextHasher struct{}

// Hash returns the password unchanged
func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

// Hash hashes the password
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Matches verifies the password against the stored hash
func (BcryptHasher) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
