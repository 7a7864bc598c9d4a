package crypto

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GregMSThompson/dashboard-builder/internal/errs"
)

// wrappedPrefix marks a stored hash that was encrypted with a Wrapper.
const wrappedPrefix = "kms:"

// Wrapper encrypts stored password hashes at rest.
type Wrapper interface {
	Wrap(ctx context.Context, plaintext string) (string, error)
	Unwrap(ctx context.Context, ciphertext string) (string, error)
}

type passwords struct {
	wrapper Wrapper
	cost    int
}

// NewPasswords hashes with bcrypt. A nil wrapper stores plain bcrypt hashes.
func NewPasswords(wrapper Wrapper) *passwords {
	return &passwords{wrapper: wrapper, cost: bcrypt.DefaultCost}
}

func (p *passwords) Hash(ctx context.Context, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", errs.NewEncryptionError("failed to hash password", err)
	}
	if p.wrapper == nil {
		return string(hash), nil
	}
	wrapped, err := p.wrapper.Wrap(ctx, string(hash))
	if err != nil {
		return "", err
	}
	return wrappedPrefix + wrapped, nil
}

// Verify reports whether password matches stored. A mismatch is (false, nil).
func (p *passwords) Verify(ctx context.Context, stored, password string) (bool, error) {
	hash := stored
	if rest, ok := strings.CutPrefix(stored, wrappedPrefix); ok {
		if p.wrapper == nil {
			return false, errs.NewEncryptionError("password hash is wrapped but no key is configured", nil)
		}
		plain, err := p.wrapper.Unwrap(ctx, rest)
		if err != nil {
			return false, err
		}
		hash = plain
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewEncryptionError("failed to verify password", err)
	}
	return true, nil
}
