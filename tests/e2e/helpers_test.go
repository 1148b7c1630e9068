//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres"
	bookrepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/book"
	outboxrepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/outbox"
	referencerepo "github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/reference"
	"github.com/heartmarshall/novelnest-inventory/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/novelnest-inventory/internal/auth"
	"github.com/heartmarshall/novelnest-inventory/internal/config"
	"github.com/heartmarshall/novelnest-inventory/internal/domain"
	"github.com/heartmarshall/novelnest-inventory/internal/service/book"
	"github.com/heartmarshall/novelnest-inventory/internal/service/outbox"
	"github.com/heartmarshall/novelnest-inventory/internal/service/reference"
	"github.com/heartmarshall/novelnest-inventory/internal/transport/middleware"
	"github.com/heartmarshall/novelnest-inventory/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// recordingSender stands in for the broker: it keeps every delivered message
// and can be switched into a failing mode.
// ---------------------------------------------------------------------------

var errBrokerDown = errors.New("broker unreachable")

type recordingSender struct {
	mu   sync.Mutex
	sent []domain.OutboxMessage
	down atomic.Bool
}

func (s *recordingSender) Send(_ context.Context, msg domain.OutboxMessage) error {
	if s.down.Load() {
		return errBrokerDown
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Ping(context.Context) error {
	if s.down.Load() {
		return errBrokerDown
	}
	return nil
}

// eventsFor returns the decoded envelopes delivered for bookID, in order.
func (s *recordingSender) eventsFor(t *testing.T, bookID string) []map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, msg := range s.sent {
		if msg.AggregateID.String() != bookID {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		out = append(out, ev)
	}
	return out
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// testServer wraps the full HTTP stack for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Sender *recordingSender
	Outbox *outbox.Service
	jwt    *auth.JWTManager
}

// setupTestServer bootstraps the application stack backed by a real
// PostgreSQL container (shared via testhelper) and a recording sender.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)
	sender := &recordingSender{}

	jwtMgr := auth.NewJWTManager(config.AuthConfig{
		JWTSecret:      "test-secret-at-least-32-chars-long!!",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
	})

	publisher := outbox.NewPublisher(logger, sender, config.PublisherConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		SendTimeout: time.Second,
	})
	dispatcher := outbox.NewService(logger, outboxrepo.New(pool), publisher, txm, config.OutboxConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    100,
		ClaimTTL:     time.Minute,
	})

	booksCfg := config.BooksConfig{
		MaxTitleLength: 500,
		MaxNameLength:  255,
		InlineDispatch: true,
		TxMaxAttempts:  3,
		TxBaseDelay:    time.Millisecond,
	}
	refs := reference.NewService(logger, referencerepo.New(pool),
		config.ReferenceConfig{MaxAttempts: 3, BaseDelay: time.Millisecond},
		booksCfg.MaxNameLength, postgres.InTx, postgres.IsTransient)
	books := book.NewService(logger, bookrepo.New(pool), refs, outboxrepo.New(pool), dispatcher, txm, booksCfg, postgres.IsTransient)

	handler := rest.NewRouter(rest.RouterDeps{
		Books: rest.NewBookHandler(books, logger, false, 1<<16),
		Health: rest.NewHealthHandler("test-version",
			rest.HealthCheck{Name: "database", Ping: pool, Critical: true},
			rest.HealthCheck{Name: "broker", Ping: sender},
		),
		Logger: logger,
		CORS: middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,HEAD,PUT,PATCH,POST,DELETE",
			AllowedHeaders: "Content-Type,Authorization",
			MaxAge:         86400,
		}),
		Auth: middleware.Auth(jwtMgr, logger),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		Sender: sender,
		Outbox: dispatcher,
		jwt:    jwtMgr,
	}
}

// tokenFor issues an access token for a fresh or given user.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwt.GenerateAccessToken(userID)
	require.NoError(t, err)
	return token
}

// do sends a JSON request and returns status + decoded body.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// createBook creates a book through the API and returns the "book" object.
func (ts *testServer) createBook(t *testing.T, token, title, author, genre string) map[string]any {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/books", map[string]string{
		"title": title, "author": author, "genre": genre,
	}, token)
	require.Equal(t, http.StatusCreated, status, "create: %v", body)
	return body["book"].(map[string]any)
}

func unique(name string) string {
	return name + " " + uuid.NewString()[:8]
}
