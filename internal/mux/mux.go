package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"flipseven-server/internal/jwt"
	"flipseven-server/pkg/playable"
	"flipseven-server/pkg/room"
	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config  config
	version string
	pitBoss *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

type config struct {
	// tokenCreateDelay is the minimum duration between two token requests from a single remote address
	tokenCreateDelay time.Duration
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		config: config{
			tokenCreateDelay: time.Second,
		},
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/token").Handler(this.postToken())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodGet).Path("/room").Handler(this.getRoom())
		r.Methods(http.MethodGet).Path("/room/{name:[a-zA-Z0-9_-]{1,32}}/ws").Handler(this.getRoomNameWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, name, err := jwt.ValidPlayer(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		player := playable.Identity{ID: id, Name: name}
		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set("FlipSeven-PlayerID", strconv.FormatInt(player.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
