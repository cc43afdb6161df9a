package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"ecommerceapi/internal/config"
	"ecommerceapi/internal/http/handlers"
	"ecommerceapi/internal/repos"
)

type testEnv struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
}

// Minimal app with real routes on an in-memory store
func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{DBDriver: repos.DriverSQLite, DBDSN: ":memory:", JWTSecret: []byte("test-secret"), TokenTTL: time.Hour, SeedDemo: true}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, BodyLimit: 1 << 20})
	app.Use(requestid.New())
	deps := handlers.NewDeps(db, cfg)
	handlers.Mount(app, deps)
	return &testEnv{app: app, db: db, deps: deps}
}

func (e *testEnv) userID(t *testing.T, email string) int64 {
	t.Helper()
	u, err := repos.NewUserRepo(e.db).ByEmail(email)
	if err != nil {
		t.Fatalf("user %s: %v", email, err)
	}
	return u.ID
}

func (e *testEnv) productID(t *testing.T, name string) int64 {
	t.Helper()
	var id int64
	if err := e.db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("product %s: %v", name, err)
	}
	return id
}

// token issues a Bearer token for a seeded user without going through login.
func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	u, err := repos.NewUserRepo(e.db).ByEmail(email)
	if err != nil {
		t.Fatalf("user %s: %v", email, err)
	}
	tok, err := e.deps.Auth.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Value
}

// do sends a request; body is JSON-encoded unless nil.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func decodeJSON(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
}
