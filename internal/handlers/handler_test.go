// handler_test.go provides shared test infrastructure for handler
// integration tests. Requests run through the full router, authenticated
// with a real access key via the Auth-Token header. Tests are skipped when
// PostgreSQL or Valkey are unavailable.
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/integrations"
	"inkwell/internal/models"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests plus a
// ready-made user and access key.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Sessions *session.Store
	Users    *store.UserStore
	Posts    *store.PostStore
	Cats     *store.CategoryStore
	Tokens   *store.TokenStore
	Links    *store.IntegrationStore
	Router   http.Handler

	User *models.User
	Key  *models.AccessKey
}

// newTestEnv creates a complete test environment. The test user (and all
// of their rows, via cascade) is removed on cleanup.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false, "")
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	cats := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	tokens := store.NewTokenStore(db)
	links := store.NewIntegrationStore(db)
	syncer := integrations.NewSyncer(links, posts)

	api := handlers.NewAPI(posts, cats, tags, tokens, links, syncer)
	auth := handlers.NewAuth(sessions, users, &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/github/callback",
		Scopes:       []string{"read:user"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://github.test/login/oauth/authorize",
			TokenURL: "https://github.test/login/oauth/access_token",
		},
	}, "http://localhost:5173", false)

	r := router.New(users, sessions, api, auth, router.Options{
		CORSOrigins: []string{"http://localhost:5173"},
	})

	user, err := users.Create(&models.GitHubUser{
		ID:    1_000_000 + rand.Int63n(1_000_000_000),
		Login: "handler-test",
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	key, err := tokens.Create(models.AccessKey{UserID: user.ID, Name: "test", Enabled: true})
	if err != nil {
		t.Fatalf("create test key: %v", err)
	}

	return &testEnv{
		DB:       db,
		Valkey:   vk,
		Sessions: sessions,
		Users:    users,
		Posts:    posts,
		Cats:     cats,
		Tokens:   tokens,
		Links:    links,
		Router:   r,
		User:     user,
		Key:      key,
	}
}

// do runs a request through the router with the test user's access key.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, e.Key.Value, method, path, body)
}

// doAs runs a request with an explicit token value; empty means no
// credential at all.
func (e *testEnv) doAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			payload, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewBuffer(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Auth-Token", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response into dest.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
