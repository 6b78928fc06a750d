// Session tests run against a real Valkey on DB 15 and are skipped when it
// is unreachable.
package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

// requestWithCookies copies the cookies a recorder set onto a new request.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	store := NewStore(testClient(t), false, "")
	ctx := context.Background()

	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, &Data{UserID: 42, Username: "tester"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != idLength*2 {
		t.Errorf("id length: got %d, want %d", len(id), idLength*2)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies: got %+v", cookies)
	}
	if cookies[0].Value != id {
		t.Errorf("cookie carries %q, session id is %q", cookies[0].Value, id)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	data, err := store.Get(ctx, requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data == nil {
		t.Fatal("expected session data")
	}
	if data.UserID != 42 || data.Username != "tester" {
		t.Errorf("data: got %+v", data)
	}
	if data.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	store := NewStore(testClient(t), false, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil without cookie")
	}
}

func TestSessionGetUnknownID(t *testing.T) {
	store := NewStore(testClient(t), false, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "never-issued"})

	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil for unknown session id")
	}
}

func TestSessionDestroy(t *testing.T) {
	store := NewStore(testClient(t), false, "")
	ctx := context.Background()

	rec := httptest.NewRecorder()
	if _, err := store.Create(ctx, rec, &Data{UserID: 7}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := requestWithCookies(rec)

	destroyRec := httptest.NewRecorder()
	if err := store.Destroy(ctx, destroyRec, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	// The cookie is expired on the response.
	cleared := destroyRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Errorf("expected expired cookie, got %+v", cleared)
	}

	// And the session is gone from Valkey.
	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if data != nil {
		t.Error("session survived destroy")
	}

	// Destroying with no cookie at all is a no-op.
	if err := store.Destroy(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Errorf("Destroy without cookie: %v", err)
	}
}

func TestSecureFlagPropagates(t *testing.T) {
	store := NewStore(testClient(t), true, "blog.example.com")

	rec := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), rec, &Data{UserID: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c := rec.Result().Cookies()[0]
	if !c.Secure {
		t.Error("expected Secure cookie")
	}
	if c.Domain != "blog.example.com" {
		t.Errorf("domain: got %q", c.Domain)
	}
}
