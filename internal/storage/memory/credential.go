package memory

import (
	"context"
	"crypto/subtle"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/pkg/cmap"
)

// CredentialStore keeps username/password pairs in memory.
type CredentialStore struct {
	users *cmap.Map[string]
}

var _ service.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore creates an empty CredentialStore.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{users: cmap.New[string]()}
}

// Save registers creds. The first registration of a username wins; later
// ones return false.
func (s *CredentialStore) Save(_ context.Context, creds domain.Credentials) bool {
	return s.users.SetIfAbsent(creds.Username, creds.Password)
}

// Exists reports whether creds match a registered pair exactly.
func (s *CredentialStore) Exists(_ context.Context, creds domain.Credentials) bool {
	stored, ok := s.users.Get(creds.Username)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(creds.Password)) == 1
}

// Len returns the number of registered users.
func (s *CredentialStore) Len() int {
	return s.users.Count()
}
