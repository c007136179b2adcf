package mux

import (
	"encoding/binary"
	"errors"
	"net/http"
	"regexp"
	"sync"
	"time"

	"flipseven-server/internal/jwt"
	"flipseven-server/internal/util"
	"github.com/google/uuid"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9]{1,24}$`)

type tokenRequest struct {
	Name string `json:"name"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
}

// newPlayerID returns a random positive ID for a guest
func newPlayerID() int64 {
	id := uuid.New()
	return int64(binary.BigEndian.Uint64(id[:8])>>1) | 1
}

// addrLimiter remembers the last request time per remote address
type addrLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func newAddrLimiter() *addrLimiter {
	return &addrLimiter{last: make(map[string]time.Time)}
}

// allow records a request from addr unless one was made within delay
// Entries older than delay are evicted so only recent addresses are kept
func (l *addrLimiter) allow(addr string, delay time.Duration, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, found := l.last[addr]; found && now.Sub(last) < delay {
		return false
	}

	for other, last := range l.last {
		if now.Sub(last) >= delay {
			delete(l.last, other)
		}
	}

	l.last[addr] = now
	return true
}

func (m *Mux) postToken() http.HandlerFunc {
	limiter := newAddrLimiter()

	return func(w http.ResponseWriter, r *http.Request) {
		var payload tokenRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		if payload.Name == "" {
			payload.Name = util.GetRandomName()
		}

		if !validName.MatchString(payload.Name) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 1 to 24 letters or digits"))
			return
		}

		if !limiter.allow(remoteAddr(r), m.config.tokenCreateDelay, time.Now()) {
			writeJSONError(w, http.StatusTooManyRequests, nil)
			return
		}

		id := newPlayerID()
		token, err := jwt.Sign(id, payload.Name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, tokenResponse{
			Token:    token,
			PlayerID: id,
			Name:     payload.Name,
		})
	}
}
