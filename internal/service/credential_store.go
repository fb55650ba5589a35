package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore hashes and verifies passwords with bcrypt.
type CredentialStore struct {
	cost  int
	dummy []byte
}

// NewCredentialStore builds a store using the given bcrypt cost. A digest of
// a throwaway secret is prepared so lookups that miss still pay for one
// comparison.
func NewCredentialStore(cost int) (*CredentialStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("collab-portal/unknown-account"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &CredentialStore{cost: cost, dummy: dummy}, nil
}

// Hash returns a salted bcrypt digest of plaintext.
func (s *CredentialStore) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest.
func (s *CredentialStore) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyMissing burns one comparison against the dummy digest. It always
// reports false and is used when no account matched the login email.
func (s *CredentialStore) VerifyMissing(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(plaintext))
	return false
}
