package service

import (
	"context"

	"github.com/yndnr/tokauth/internal/core/domain"
)

// CredentialStore persists username/password pairs.
//
// Implementations must be safe for concurrent use. Any internal failure is
// reported as false.
type CredentialStore interface {
	// Save records the credentials. It returns false if the store refused
	// them, including when the username is already registered.
	Save(ctx context.Context, creds domain.Credentials) bool

	// Exists reports whether a record matches both the username and the
	// password exactly as submitted.
	Exists(ctx context.Context, creds domain.Credentials) bool
}

// TokenStore issues session tokens and maps them to usernames.
//
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Generate returns a fresh, unpredictable token. It does not record it.
	Generate(ctx context.Context) (domain.Token, error)

	// Save maps token to username. It returns false if the mapping could
	// not be stored.
	Save(ctx context.Context, token domain.Token, username string) bool

	// Lookup resolves a token to the username it was saved for.
	Lookup(ctx context.Context, token domain.Token) (string, bool)
}

// AuthService implements register, login and authenticate on top of a
// CredentialStore and a TokenStore.
type AuthService struct {
	credentials CredentialStore
	tokens      TokenStore
}

// NewAuthService creates an AuthService over the given stores.
func NewAuthService(credentials CredentialStore, tokens TokenStore) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
	}
}

// Register stores new credentials and reports whether the credential store
// accepted them. Empty usernames and passwords are passed through unchanged.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) bool {
	return s.credentials.Save(ctx, creds)
}

// Login exchanges valid credentials for a new session token.
//
// The steps run strictly in order and stop at the first failure:
//  1. the credentials must exist;
//  2. a token is generated;
//  3. the token is saved against the username.
//
// A token that was generated but could not be saved is discarded.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.Token, bool) {
	if !s.credentials.Exists(ctx, creds) {
		return "", false
	}

	token, err := s.tokens.Generate(ctx)
	if err != nil {
		return "", false
	}

	if !s.tokens.Save(ctx, token, creds.Username) {
		return "", false
	}

	return token, true
}

// Authenticate resolves a token to the username it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token domain.Token) (string, bool) {
	return s.tokens.Lookup(ctx, token)
}
