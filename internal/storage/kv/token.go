package kv

import (
	"context"
	"errors"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/token"
)

const tokenPrefix = "token:"

// TokenStore stores token mappings in a KVEngine, keyed by token hash.
type TokenStore struct {
	engine   storage.KVEngine
	generate token.Generator
	log      logger.Logger
}

var _ service.TokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore that issues tokens with gen. A nil gen
// uses token.NewOpaque; a nil log uses logger.Default().
func NewTokenStore(engine storage.KVEngine, gen token.Generator, log logger.Logger) *TokenStore {
	if gen == nil {
		gen = token.NewOpaque
	}
	if log == nil {
		log = logger.Default()
	}
	return &TokenStore{
		engine:   engine,
		generate: gen,
		log:      log.With("component", "kv.tokens"),
	}
}

func tokenKey(t domain.Token) []byte {
	return []byte(tokenPrefix + token.Hash(string(t)))
}

// Generate returns a new token without storing it.
func (s *TokenStore) Generate(_ context.Context) (domain.Token, error) {
	t, err := s.generate()
	if err != nil {
		s.log.Error("generate token", "error", err)
		return "", err
	}
	return domain.Token(t), nil
}

// Save maps t to username, replacing any previous mapping.
func (s *TokenStore) Save(ctx context.Context, t domain.Token, username string) bool {
	if err := s.engine.Set(ctx, tokenKey(t), []byte(username)); err != nil {
		s.log.Error("save token", "username", username, "error", err)
		return false
	}
	return true
}

// Lookup returns the username stored for t.
func (s *TokenStore) Lookup(ctx context.Context, t domain.Token) (string, bool) {
	v, err := s.engine.Get(ctx, tokenKey(t))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Error("lookup token", "token_hash", token.Hash(string(t)), "error", err)
		}
		return "", false
	}
	return string(v), true
}
