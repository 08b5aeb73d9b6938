// Package httpapi serves the arena JSON API, the battle stream websocket and
// the liveness probe.
package httpapi

import (
	"context"
	"net/http"

	"github.com/louisbranch/creature-arena/internal/platform/otel"
	"github.com/louisbranch/creature-arena/internal/platform/timeouts"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
	"github.com/louisbranch/creature-arena/internal/services/arena/roster"
	otelcodes "go.opentelemetry.io/otel/codes"
	"golang.org/x/net/websocket"
)

// Version is reported by GET /api/version.
const Version = "1.0.0"

const maxBodyBytes = 1 << 20

// BattleSimulator runs battles between named rosters.
type BattleSimulator interface {
	SimulateFunc(ctx context.Context, rosterA, rosterB []string, onLine func(string) error) (battle.Outcome, error)
}

// CreatureLister pages through the creature catalog.
type CreatureLister interface {
	List(ctx context.Context, req roster.ListRequest) (roster.ListResult, error)
}

// Server holds the dependencies of the HTTP routes.
type Server struct {
	simulator BattleSimulator
	catalog   CreatureLister
}

// NewHandler returns the arena routes wrapped with CORS handling.
func NewHandler(simulator BattleSimulator, catalog CreatureLister) http.Handler {
	s := &Server{simulator: simulator, catalog: catalog}
	return withCORS(s.routes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /api/version", traced("GET /api/version", s.handleVersion))
	mux.HandleFunc("POST /api/battles", traced("POST /api/battles", s.handleCreateBattle))
	mux.HandleFunc("GET /api/creatures", traced("GET /api/creatures", s.handleListCreatures))
	mux.Handle("GET /api/battles/stream", websocket.Handler(s.handleBattleStream))
	return mux
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Version))
}

// traced starts a server span named name around h and bounds the request
// with timeouts.Request. Responses with a 5xx status mark the span as failed.
func traced(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
		defer cancel()
		ctx, span := otel.Tracer().Start(ctx, name)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r.WithContext(ctx))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(otelcodes.Error, http.StatusText(rec.status))
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
