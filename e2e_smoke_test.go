//go:build smoke

// Smoke test driving the full HTTP API with concurrent virtual users. Each
// user registers its own account and runs a multi-day scenario of journal
// entries, violation reports, evidence uploads, calendar events, and share
// links, then verifies everything it wrote reads back correctly. The point
// is correctness under concurrency, not throughput.
//
// By default the test starts an in-process server over the in-memory store.
// Set SMOKE_BASE_URL to point at an already-running server instead, for
// example one backed by SurrealDB or PostgreSQL:
//
//	go test -tags smoke ./...
//	SMOKE_BASE_URL=http://localhost:8080 SMOKE_USERS=25 go test -tags smoke -run TestSmoke ./...
package casekeeper_test

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/casekeeper"
	"github.com/casekeeper/casekeeper/pkg/casekeepertesting"
	"github.com/casekeeper/casekeeper/pkg/store/memory"
)

type smokeConfig struct {
	BaseURL      string
	NumUsers     int
	ScenarioDays int
	LaunchDelay  time.Duration
	Timeout      time.Duration
}

func smokeConfigFromEnv() smokeConfig {
	cfg := smokeConfig{
		BaseURL:      os.Getenv("SMOKE_BASE_URL"),
		NumUsers:     10,
		ScenarioDays: 14,
		LaunchDelay:  50 * time.Millisecond,
		Timeout:      5 * time.Minute,
	}
	if v := os.Getenv("SMOKE_USERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NumUsers = n
		}
	}
	if v := os.Getenv("SMOKE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScenarioDays = n
		}
	}
	return cfg
}

func TestSmoke(t *testing.T) {
	cfg := smokeConfigFromEnv()

	if cfg.BaseURL == "" {
		app, err := casekeeper.NewWithStore(&casekeeper.Config{
			JWTSecret: "smoke-test-secret",
			TokenTTL:  24 * time.Hour,
		}, memory.NewMemoryStore(), zerolog.New(io.Discard))
		require.NoError(t, err)

		server := httptest.NewServer(app.Router())
		defer server.Close()
		cfg.BaseURL = server.URL
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	t.Logf("smoke test: %d users, %d scenario days, target %s", cfg.NumUsers, cfg.ScenarioDays, cfg.BaseURL)

	var wg sync.WaitGroup
	errs := make([]error, cfg.NumUsers)
	users := make([]*casekeepertesting.VirtualUser, cfg.NumUsers)

	for i := 0; i < cfg.NumUsers; i++ {
		users[i] = casekeepertesting.NewVirtualUser(i, cfg.BaseURL)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = users[i].RunScenario(ctx, cfg.ScenarioDays)
		}(i)
		time.Sleep(cfg.LaunchDelay)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "virtual user %d scenario failed", i)
	}

	// Re-verify after all scenarios finish: concurrent users must not have
	// disturbed each other's data.
	for i, vu := range users {
		require.NoErrorf(t, vu.VerifyAllData(ctx), "virtual user %d post-run verification failed", i)
	}
}
