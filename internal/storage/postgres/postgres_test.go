package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/password"
	"github.com/yndnr/tokauth/pkg/token"
)

func testHasher() *password.Hasher {
	return password.NewHasher(password.Params{Time: 1, Memory: 1024, Threads: 1})
}

func TestCredentialStore_Save(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO credentials`).
					WithArgs(pgxmock.AnyArg(), "alice", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			want: true,
		},
		{
			name: "duplicate username",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO credentials`).
					WithArgs(pgxmock.AnyArg(), "alice", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			want: false,
		},
		{
			name: "connection error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO credentials`).
					WithArgs(pgxmock.AnyArg(), "alice", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			s := NewCredentialStore(mock, testHasher(), logger.Nop())
			got := s.Save(context.Background(), domain.NewCredentials("alice", "p1"))

			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCredentialStore_Exists(t *testing.T) {
	hash, err := testHasher().Hash("p1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
	}{
		{
			name:     "matching password",
			password: "p1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow(hash))
			},
			want: true,
		},
		{
			name:     "wrong password",
			password: "p2",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow(hash))
			},
			want: false,
		},
		{
			name:     "unknown user",
			password: "p1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnError(pgx.ErrNoRows)
			},
			want: false,
		},
		{
			name:     "corrupt hash",
			password: "p1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow("p1"))
			},
			want: false,
		},
		{
			name:     "zero iteration hash",
			password: "p1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).
						AddRow("$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5"))
			},
			want: false,
		},
		{
			name:     "query error",
			password: "p1",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT password_hash FROM credentials`).
					WithArgs("alice").
					WillReturnError(errors.New("connection reset"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			s := NewCredentialStore(mock, testHasher(), logger.Nop())
			got := s.Exists(context.Background(), domain.NewCredentials("alice", tt.password))

			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenStore_Save(t *testing.T) {
	const tok = domain.Token("0b7c3a52-9d0e-4f61-8a3b-2c5d7e9f1a24")

	t.Run("upserted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO session_tokens`).
			WithArgs(token.Hash(string(tok)), "alice", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		s := NewTokenStore(mock, nil, logger.Nop())
		assert.True(t, s.Save(context.Background(), tok, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO session_tokens`).
			WithArgs(token.Hash(string(tok)), "alice", pgxmock.AnyArg()).
			WillReturnError(errors.New("read-only transaction"))

		s := NewTokenStore(mock, nil, logger.Nop())
		assert.False(t, s.Save(context.Background(), tok, "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenStore_Lookup(t *testing.T) {
	const tok = domain.Token("0b7c3a52-9d0e-4f61-8a3b-2c5d7e9f1a24")

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantUser  string
		wantOK    bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT username FROM session_tokens`).
					WithArgs(token.Hash(string(tok))).
					WillReturnRows(pgxmock.NewRows([]string{"username"}).AddRow("alice"))
			},
			wantUser: "alice",
			wantOK:   true,
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT username FROM session_tokens`).
					WithArgs(token.Hash(string(tok))).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "query error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT username FROM session_tokens`).
					WithArgs(token.Hash(string(tok))).
					WillReturnError(errors.New("timeout"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			s := NewTokenStore(mock, nil, logger.Nop())
			user, ok := s.Lookup(context.Background(), tok)

			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantOK, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTokenStore_Generate(t *testing.T) {
	s := NewTokenStore(nil, nil, logger.Nop())
	tok, err := s.Generate(context.Background())
	require.NoError(t, err)
	id, err := uuid.Parse(string(tok))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	boom := errors.New("boom")
	s = NewTokenStore(nil, func() (string, error) { return "", boom }, logger.Nop())
	_, err = s.Generate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestPing(t *testing.T) {
	cfg := Config{ConnectRetries: 3, ConnectBackoff: time.Millisecond}

	t.Run("succeeds after retries", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing().WillReturnError(errors.New("starting up"))
		mock.ExpectPing().WillReturnError(errors.New("starting up"))
		mock.ExpectPing()

		require.NoError(t, ping(context.Background(), mock, cfg, logger.Nop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		for i := 0; i < 4; i++ {
			mock.ExpectPing().WillReturnError(errors.New("refused"))
		}

		err = ping(context.Background(), mock, cfg, logger.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "4 attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConnect_InvalidDSN(t *testing.T) {
	_, err := Connect(context.Background(), Config{DSN: "postgres://u@localhost:badport/db"}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dsn")
}
