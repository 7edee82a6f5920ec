package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Credential is one entry of the fixed login table. The table stands in for a
// real identity provider; everything downstream only sees the verified user
// ID, role and display name.
type Credential struct {
	UserID   uuid.UUID
	Email    string
	Password string
	Role     Role
	Name     string
	// StaffID links the account to a staff profile (doctors need their
	// profile on prescriptions). Nil for accounts without one.
	StaffID *uuid.UUID
}

// CredentialStore holds the in-memory credential table.
type CredentialStore struct {
	mu      sync.RWMutex
	byEmail map[string]*Credential
}

func NewCredentialStore(creds []*Credential) *CredentialStore {
	s := &CredentialStore{byEmail: make(map[string]*Credential, len(creds))}
	for _, c := range creds {
		s.byEmail[strings.ToLower(c.Email)] = c
	}
	return s
}

// ErrInvalidCredentials is returned for any failed login. The message is
// identical for unknown email and wrong password.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// Authenticate checks an email/password pair against the table.
func (s *CredentialStore) Authenticate(email, password string) (*Credential, error) {
	s.mu.RLock()
	cred, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}

// Add registers an additional credential, replacing any entry with the same
// email. Used by the fixture seeder to link staff accounts.
func (s *CredentialStore) Add(c *Credential) {
	s.mu.Lock()
	s.byEmail[strings.ToLower(c.Email)] = c
	s.mu.Unlock()
}
