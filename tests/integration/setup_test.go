package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	adaptershttp "github.com/gigvora/escrow/internal/adapter/http"
	"github.com/gigvora/escrow/internal/adapter/http/handler"
	"github.com/gigvora/escrow/internal/adapter/repository/postgres"
	redisrepo "github.com/gigvora/escrow/internal/adapter/repository/redis"
	infraredis "github.com/gigvora/escrow/internal/infrastructure/redis"
	"github.com/gigvora/escrow/internal/usecase"
	"github.com/gigvora/escrow/tests/testutil"
)

type testEnv struct {
	router http.Handler
	db     *testutil.TestDB
}

// newTestEnv wires the full HTTP stack against real Postgres and Redis.
// Auth and rate limiting stay disabled so tests hit handlers directly.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	disputeRepo := postgres.NewDisputeRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	overviewUC := usecase.NewOverviewUseCase(accountRepo, transactionRepo, disputeRepo, activityRepo, cache, 0)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, activityRepo, outboxRepo, idGen, nil)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, activityRepo, outboxRepo, idGen, nil)
	disputeUC := usecase.NewDisputeUseCase(txManager, transactionRepo, accountRepo, disputeRepo, activityRepo, outboxRepo, idGen, nil)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		OverviewHandler:    handler.NewOverviewHandler(overviewUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, overviewUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, overviewUC),
		DisputeHandler:     handler.NewDisputeHandler(disputeUC, overviewUC),
		HealthHandler:      handler.NewHealthHandler(pool, nil),
		IdempotencyStore:   idempotencyStore,
	})

	return &testEnv{router: router, db: testDB}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	e.router.ServeHTTP(w, r)

	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}

	return out
}
