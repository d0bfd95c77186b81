package kv

import (
	"context"
	"errors"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/password"
)

const credentialPrefix = "cred:"

// CredentialStore stores password hashes in a KVEngine.
type CredentialStore struct {
	engine storage.KVEngine
	hasher *password.Hasher
	log    logger.Logger
}

var _ service.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore creates a CredentialStore. A nil log uses
// logger.Default().
func NewCredentialStore(engine storage.KVEngine, hasher *password.Hasher, log logger.Logger) *CredentialStore {
	if log == nil {
		log = logger.Default()
	}
	return &CredentialStore{
		engine: engine,
		hasher: hasher,
		log:    log.With("component", "kv.credentials"),
	}
}

func credentialKey(username string) []byte {
	return []byte(credentialPrefix + username)
}

// Save hashes the password and stores it under the username. It returns
// false if the username is taken or the engine fails.
func (s *CredentialStore) Save(ctx context.Context, creds domain.Credentials) bool {
	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		s.log.Error("hash password", "username", creds.Username, "error", err)
		return false
	}

	err = s.engine.SetIfAbsent(ctx, credentialKey(creds.Username), []byte(hash))
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrKeyExists):
		s.log.Debug("username already registered", "username", creds.Username)
	default:
		s.log.Error("save credentials", "username", creds.Username, "error", err)
	}
	return false
}

// Exists reports whether the stored hash for the username verifies against
// the submitted password.
func (s *CredentialStore) Exists(ctx context.Context, creds domain.Credentials) bool {
	hash, err := s.engine.Get(ctx, credentialKey(creds.Username))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Error("load credentials", "username", creds.Username, "error", err)
		}
		return false
	}

	ok, err := s.hasher.Verify(creds.Password, string(hash))
	if err != nil {
		s.log.Error("verify password", "username", creds.Username, "error", err)
		return false
	}
	return ok
}
