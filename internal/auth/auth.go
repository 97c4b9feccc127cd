// Package auth implements the shared-secret access gate and server-side
// session state.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HashSecret returns the SHA-256 hex digest of a secret.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// Gate compares submitted secrets against a stored master digest. There is no
// per-user identity, lockout, or rate limiting.
type Gate struct {
	masterHash string
}

// NewGate creates a gate for the given SHA-256 hex digest.
func NewGate(masterHash string) *Gate {
	return &Gate{masterHash: masterHash}
}

// Authenticate reports whether the submitted secret hashes to the stored
// digest.
func (g *Gate) Authenticate(secret string) bool {
	digest := HashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(g.masterHash)) == 1
}

// Sessions is an in-memory registry of authenticated sessions. Each session
// is an opaque token with an expiry; there is nothing else to a session, the
// system has a single shared identity.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]time.Time
}

// NewSessions creates a registry whose sessions live for ttl.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{ttl: ttl, tokens: make(map[string]time.Time)}
}

// Start issues a new session token.
func (s *Sessions) Start() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Valid reports whether token names a live session. Expired tokens are
// removed on check.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// End removes a session. Ending an unknown token is a no-op.
func (s *Sessions) End(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
