package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// sessionStore holds bearer tokens issued after a successful PIN check.
// Sessions live in memory only, a restart logs everyone out.
type sessionStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
	}
}

func (ss *sessionStore) issue() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read on supported platforms never fails
		panic(err)
	}
	token := hex.EncodeToString(buf)

	ss.mu.Lock()
	ss.tokens[token] = time.Now().Add(ss.ttl)
	ss.mu.Unlock()
	return token
}

func (ss *sessionStore) valid(token string) bool {
	if token == "" {
		return false
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()

	expires, ok := ss.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expires) {
		delete(ss.tokens, token)
		return false
	}
	return true
}

func (ss *sessionStore) revoke(token string) {
	ss.mu.Lock()
	delete(ss.tokens, token)
	ss.mu.Unlock()
}

func (ss *sessionStore) cleanExpired() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := time.Now()
	for token, expires := range ss.tokens {
		if now.After(expires) {
			delete(ss.tokens, token)
		}
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

type pinRequest struct {
	PIN string `json:"pin"`
}

type pinResponse struct {
	Token string `json:"token"`
}

// handleAuthPIN exchanges the access PIN for a session token.
func (s *Server) handleAuthPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(s.accessPIN)) != 1 {
		s.logger.Warn("Rejected PIN attempt", "client_ip", extractClientIP(r))
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}

	writeJSON(w, http.StatusOK, pinResponse{Token: s.sessions.issue()})
}

// handleLogout revokes the caller's session token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.revoke(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}
