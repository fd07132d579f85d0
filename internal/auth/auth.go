// Package auth guards the admin API with a shared password and cookie sessions.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	CookieName    = "tinydecisions_session"
	CookiePath    = "/api/admin"
	SessionExpiry = 24 * time.Hour
)

// Words for generated admin passwords
var passwordWords = []string{
	"wheel", "spin", "coin", "heads", "tails",
	"dice", "lucky", "pick", "finger", "choose",
	"maybe", "random", "pointer", "winner", "toss",
	"chance", "wedge", "arrow", "roulette",
}

// Auth keeps the admin password and the live sessions
type Auth struct {
	password []byte
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

// New creates an Auth for password
func New(password string) *Auth {
	return &Auth{
		password: []byte(password),
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// SetClock replaces the clock used for session expiry
func (a *Auth) SetClock(now func() time.Time) {
	a.mu.Lock()
	a.now = now
	a.mu.Unlock()
}

// GeneratePassword returns three random words joined by dashes
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = passwordWords[randomInt(len(passwordWords))]
	}
	return strings.Join(words, "-")
}

// Login checks password and opens a session. Expired sessions are dropped on
// every successful login so the map never grows past the live ones.
func (a *Auth) Login(password string) (string, bool) {
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return "", false
	}

	token := generateToken()

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for t, expiry := range a.sessions {
		if !now.Before(expiry) {
			delete(a.sessions, t)
		}
	}
	a.sessions[token] = now.Add(SessionExpiry)
	return token, true
}

// Logout ends the session for token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession reports whether token belongs to a live session
func (a *Auth) ValidateSession(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.sessions[token]
	if !ok {
		return false
	}
	if !a.now().Before(expiry) {
		delete(a.sessions, token)
		return false
	}
	return true
}

// SessionCount returns how many sessions are stored, expired ones included
func (a *Auth) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// HasSession reports whether the request carries a live session cookie
func (a *Auth) HasSession(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.ValidateSession(cookie.Value)
}

// RequireAuthAPI rejects requests without a session with a JSON 401
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.HasSession(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie hands token to the browser, scoped to the admin API
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// randomInt returns a uniform int in [0, n)
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
