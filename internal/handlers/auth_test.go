package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/session"
)

func TestGithubLoginRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, "", http.MethodGet, "/auth/github/login", nil)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login: got %d, want 307", rec.Code)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if !strings.Contains(loc.Host, "github.test") {
		t.Errorf("redirect host: got %q", loc.Host)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in redirect URL")
	}

	// The state nonce round-trips through a cookie.
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "ink_oauth_state" {
			found = true
			if c.Value != state {
				t.Errorf("cookie state %q != url state %q", c.Value, state)
			}
			if !c.HttpOnly {
				t.Error("state cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("state cookie not set")
	}
}

func TestGithubCallbackStateMismatch(t *testing.T) {
	env := newTestEnv(t)

	// No state cookie at all.
	rec := env.doAs(t, "", http.MethodGet, "/auth/github/callback?state=x&code=y", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing cookie: got %d, want 400", rec.Code)
	}

	// Cookie present but doesn't match the query parameter.
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state=evil&code=y", nil)
	req.AddCookie(&http.Cookie{Name: "ink_oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("state mismatch: got %d, want 400", rr.Code)
	}
}

func TestGetUserInfo(t *testing.T) {
	env := newTestEnv(t)

	// Without a credential.
	rec := env.doAs(t, "", http.MethodGet, "/auth/user", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	// With an access key.
	rec = env.do(t, http.MethodGet, "/auth/user", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated: got %d", rec.Code)
	}
	var user models.User
	decodeBody(t, rec, &user)
	if user.ID != env.User.ID {
		t.Errorf("user: got %d, want %d", user.ID, env.User.ID)
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	env := newTestEnv(t)

	// Open a session directly, the way the OAuth callback would.
	rec := httptest.NewRecorder()
	_, err := env.Sessions.Create(context.Background(), rec, &session.Data{
		UserID:   env.User.ID,
		Username: env.User.Username,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("session auth: got %d", rr.Code)
	}
	var user models.User
	decodeBody(t, rr, &user)
	if user.ID != env.User.ID {
		t.Errorf("user: got %d, want %d", user.ID, env.User.ID)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	_, err := env.Sessions.Create(context.Background(), rec, &session.Data{UserID: env.User.ID})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookies := rec.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rr.Code)
	}

	// The session is gone: the same cookie no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/auth/user", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d, want 401", rr.Code)
	}

	// Logging out without a session is harmless.
	rec2 := env.doAs(t, "", http.MethodGet, "/auth/logout", nil)
	if rec2.Code != http.StatusOK {
		t.Errorf("logout without session: got %d, want 200", rec2.Code)
	}
}
