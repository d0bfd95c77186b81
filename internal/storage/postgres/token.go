package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/token"
)

const (
	upsertTokenSQL = `
		INSERT INTO session_tokens (token_hash, username, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE
		SET username = EXCLUDED.username, created_at = EXCLUDED.created_at`

	selectTokenSQL = `
		SELECT username FROM session_tokens WHERE token_hash = $1`
)

// TokenStore stores token mappings in the session_tokens table, keyed by
// the SHA-256 of the token.
type TokenStore struct {
	pool     poolIface
	generate token.Generator
	log      logger.Logger
	now      func() time.Time
}

var _ service.TokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore over pool. A nil gen uses
// token.NewOpaque.
func NewTokenStore(pool poolIface, gen token.Generator, log logger.Logger) *TokenStore {
	if gen == nil {
		gen = token.NewOpaque
	}
	if log == nil {
		log = logger.Default()
	}
	return &TokenStore{
		pool:     pool,
		generate: gen,
		log:      log.With("component", "postgres.tokens"),
		now:      time.Now,
	}
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

// Save upserts the mapping for t.
func (s *TokenStore) Save(ctx context.Context, t domain.Token, username string) bool {
	_, err := s.pool.Exec(ctx, upsertTokenSQL, token.Hash(string(t)), username, s.now().UTC())
	if err != nil {
		s.log.Error("upsert token", "username", username, "error", err)
		return false
	}
	return true
}

// Lookup returns the username stored for t.
func (s *TokenStore) Lookup(ctx context.Context, t domain.Token) (string, bool) {
	hash := token.Hash(string(t))

	var username string
	err := s.pool.QueryRow(ctx, selectTokenSQL, hash).Scan(&username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Error("select token", "token_hash", hash, "error", err)
		}
		return "", false
	}
	return username, true
}
