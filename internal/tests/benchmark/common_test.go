package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/storage/kv"
	"github.com/yndnr/tokauth/internal/storage/memory"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/pkg/password"
	"github.com/yndnr/tokauth/pkg/token"
)

// UserCounts defines the number of registered users to prefill.
var UserCounts = []int{1000, 10000, 100000}

// SmallUserCounts for quick benchmarks and slow backends.
var SmallUserCounts = []int{100, 1000}

// benchParams keeps argon2id cheap enough for store benchmarks; the
// hashing cost itself is measured in BenchmarkPasswordHash.
var benchParams = password.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

type backend struct {
	name string
	open func(b *testing.B) (service.CredentialStore, service.TokenStore)
}

var backends = []backend{
	{name: "memory", open: openMemory},
	{name: "badger", open: openBadger},
}

func openMemory(*testing.B) (service.CredentialStore, service.TokenStore) {
	return memory.NewCredentialStore(), memory.NewTokenStore()
}

func openBadger(b *testing.B) (service.CredentialStore, service.TokenStore) {
	cfg := storage.DefaultBadgerConfig(b.TempDir())
	cfg.GCInterval = 0
	cfg.SyncWrites = false

	engine, err := storage.NewBadgerEngine(cfg, logger.Nop().Slog())
	if err != nil {
		b.Fatalf("NewBadgerEngine: %v", err)
	}
	b.Cleanup(func() { _ = engine.Close() })

	log := logger.Nop()
	return kv.NewCredentialStore(engine, password.NewHasher(benchParams), log),
		kv.NewTokenStore(engine, token.NewOpaque, log)
}

func userCredentials(i int) domain.Credentials {
	return domain.Credentials{
		Username: fmt.Sprintf("user-%d", i),
		Password: fmt.Sprintf("pass-%d", i),
	}
}

// prefill registers count users and logs each of them in once, returning
// the issued tokens.
func prefill(b *testing.B, auth *service.AuthService, count int) []domain.Token {
	b.Helper()
	ctx := context.Background()
	tokens := make([]domain.Token, count)
	for i := 0; i < count; i++ {
		creds := userCredentials(i)
		if !auth.Register(ctx, creds) {
			b.Fatalf("register %s failed", creds.Username)
		}
		tok, ok := auth.Login(ctx, creds)
		if !ok {
			b.Fatalf("login %s failed", creds.Username)
		}
		tokens[i] = tok
	}
	return tokens
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

func runWithUserCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("users_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
