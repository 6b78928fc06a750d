package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// stateCookie carries the OAuth state nonce between login and callback.
const stateCookie = "ink_oauth_state"

// githubUserURL is the profile endpoint queried after a token exchange.
var githubUserURL = "https://api.github.com/user"

// Auth bundles the authentication handlers: GitHub OAuth login, session
// logout, and the current-user endpoint.
type Auth struct {
	sessions     *session.Store
	users        *store.UserStore
	oauth        *oauth2.Config
	dashboardURL string
	secure       bool
}

// NewAuth creates the Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore, oauth *oauth2.Config, dashboardURL string, secure bool) *Auth {
	return &Auth{
		sessions:     sessions,
		users:        users,
		oauth:        oauth,
		dashboardURL: dashboardURL,
		secure:       secure,
	}
}

// GithubLogin handles GET /auth/github/login: sets a state nonce cookie
// and redirects the browser to GitHub's consent page.
func (h *Auth) GithubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		serverError(w, "error generating oauth state", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

// GithubCallback handles GET /auth/github/callback: verifies the state
// nonce, exchanges the code, fetches the GitHub profile, finds or creates
// the user, and opens a session.
func (h *Auth) GithubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, http.StatusBadRequest, "oauth state mismatch")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		serverError(w, "error exchanging oauth code", err)
		return
	}

	gh, err := h.fetchGitHubUser(r, token)
	if err != nil {
		serverError(w, "error fetching github profile", err)
		return
	}

	user, err := h.users.FindByGitHubID(gh.ID)
	if err != nil {
		serverError(w, "error fetching user", err)
		return
	}
	if user == nil {
		user, err = h.users.Create(gh)
		if err != nil {
			serverError(w, "error creating user", err)
			return
		}
	}

	_, err = h.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		serverError(w, "error creating session", err)
		return
	}

	http.Redirect(w, r, h.dashboardURL, http.StatusSeeOther)
}

// GetUserInfo handles GET /auth/user: the authenticated user or 401.
func (h *Auth) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Logout handles GET /auth/logout: destroys the session and clears the cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		serverError(w, "error destroying session", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Auth) fetchGitHubUser(r *http.Request, token *oauth2.Token) (*models.GitHubUser, error) {
	client := h.oauth.Client(r.Context(), token)
	resp, err := client.Get(githubUserURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var gh models.GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, err
	}
	return &gh, nil
}

// randomState creates a cryptographically random OAuth state nonce.
func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
