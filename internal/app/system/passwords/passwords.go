// Package passwords turns a submitted password into the stored credential and
// checks a submitted password against it.
//
// Two storage modes exist:
//   - "bcrypt": salted bcrypt hash (default)
//   - "plain":  the password is stored and compared verbatim. This is insecure
//     and exists only for databases that already hold plain credentials.
package passwords

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Storage modes.
const (
	ModeBcrypt = "bcrypt"
	ModePlain  = "plain"
)

// Hasher produces and verifies stored credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// New returns the Hasher for mode. An empty mode selects bcrypt.
func New(mode string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	case ModePlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown password storage mode %q (want %q or %q)", mode, ModeBcrypt, ModePlain)
	}
}

// Bcrypt stores bcrypt hashes. The password is reduced to a fixed-length
// SHA-256 digest first, so inputs longer than bcrypt's 72-byte limit are
// accepted and not truncated.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b Bcrypt) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), prehash(password)) == nil
}

// prehash returns the base64 SHA-256 digest of password (44 bytes).
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Plain stores the password as-is.
type Plain struct{}

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
