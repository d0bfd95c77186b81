package memory

import (
	"context"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/pkg/cmap"
	"github.com/yndnr/tokauth/pkg/token"
)

// TokenStore keeps token to username mappings in memory.
type TokenStore struct {
	sessions *cmap.Map[string]
	generate token.Generator
}

var _ service.TokenStore = (*TokenStore)(nil)

// TokenOption configures a TokenStore.
type TokenOption func(*TokenStore)

// WithGenerator replaces the token generator (token.NewOpaque by default).
func WithGenerator(g token.Generator) TokenOption {
	return func(s *TokenStore) {
		s.generate = g
	}
}

// NewTokenStore creates an empty TokenStore.
func NewTokenStore(opts ...TokenOption) *TokenStore {
	s := &TokenStore{
		sessions: cmap.New[string](),
		generate: token.NewOpaque,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns a new random token.
func (s *TokenStore) Generate(_ context.Context) (domain.Token, error) {
	t, err := s.generate()
	if err != nil {
		return "", err
	}
	return domain.Token(t), nil
}

// Save maps t to username. An existing mapping for t is replaced.
func (s *TokenStore) Save(_ context.Context, t domain.Token, username string) bool {
	s.sessions.Set(string(t), username)
	return true
}

// Lookup returns the username t was saved for.
func (s *TokenStore) Lookup(_ context.Context, t domain.Token) (string, bool) {
	return s.sessions.Get(string(t))
}

// Len returns the number of stored mappings.
func (s *TokenStore) Len() int {
	return s.sessions.Count()
}
