package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/password"
)

const (
	insertCredentialSQL = `
		INSERT INTO credentials (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`

	selectCredentialSQL = `
		SELECT password_hash FROM credentials WHERE username = $1`
)

// CredentialStore stores password hashes in the credentials table.
type CredentialStore struct {
	pool   poolIface
	hasher *password.Hasher
	log    logger.Logger
	now    func() time.Time
}

var _ service.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore creates a CredentialStore over pool.
func NewCredentialStore(pool poolIface, hasher *password.Hasher, log logger.Logger) *CredentialStore {
	if log == nil {
		log = logger.Default()
	}
	return &CredentialStore{
		pool:   pool,
		hasher: hasher,
		log:    log.With("component", "postgres.credentials"),
		now:    time.Now,
	}
}

// Save inserts a credentials row. A unique violation on username returns
// false without logging an error.
func (s *CredentialStore) Save(ctx context.Context, creds domain.Credentials) bool {
	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		s.log.Error("hash password", "username", creds.Username, "error", err)
		return false
	}

	_, err = s.pool.Exec(ctx, insertCredentialSQL,
		ulid.Make().String(),
		creds.Username,
		hash,
		s.now().UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.log.Debug("username already registered", "username", creds.Username)
			return false
		}
		s.log.Error("insert credentials", "username", creds.Username, "error", err)
		return false
	}
	return true
}

// Exists loads the stored hash for the username and verifies the password
// against it.
func (s *CredentialStore) Exists(ctx context.Context, creds domain.Credentials) bool {
	var hash string
	err := s.pool.QueryRow(ctx, selectCredentialSQL, creds.Username).Scan(&hash)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Error("select credentials", "username", creds.Username, "error", err)
		}
		return false
	}

	ok, err := s.hasher.Verify(creds.Password, hash)
	if err != nil {
		s.log.Error("verify password", "username", creds.Username, "error", err)
		return false
	}
	return ok
}
