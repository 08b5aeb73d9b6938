// Package server wires the arena runtime: catalog store, seeding, and the
// gRPC and HTTP listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	grpcmeta "github.com/louisbranch/creature-arena/internal/platform/grpc/metadata"
	"github.com/louisbranch/creature-arena/internal/platform/timeouts"
	arenaservice "github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/arena"
	"github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/interceptors"
	"github.com/louisbranch/creature-arena/internal/services/arena/api/httpapi"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
	"github.com/louisbranch/creature-arena/internal/services/arena/roster"
	"github.com/louisbranch/creature-arena/internal/services/arena/seed"
	arenasqlite "github.com/louisbranch/creature-arena/internal/services/arena/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config holds the arena runtime settings.
type Config struct {
	GRPCAddr    string
	HTTPAddr    string
	DBPath      string
	SeedSource  string
	SeedOnStart bool
	Pairing     battle.Pairing
	Env         string
}

// Server hosts the arena gRPC and HTTP APIs over one creature store.
type Server struct {
	grpcListener net.Listener
	httpListener net.Listener
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	store        *arenasqlite.Store
	env          string
}

// New opens the store, seeds it when configured, and binds both listeners.
func New(ctx context.Context, cfg Config) (*Server, error) {
	store, err := OpenStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if cfg.SeedOnStart {
		source := strings.TrimSpace(cfg.SeedSource)
		if source == "" {
			source = seed.DefaultSource
		}
		if _, err := seed.New(store, source).Bootstrap(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}
	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = grpcListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}

	simulator := battle.NewSimulator(roster.NewResolver(store), battle.WithPairing(cfg.Pairing))
	catalog := roster.NewCatalog(store)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.LoggingInterceptor(nil),
		),
	)
	healthServer := health.NewServer()
	arenaservice.RegisterBattleServiceServer(grpcServer, arenaservice.NewService(simulator, catalog))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(arenaservice.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	httpServer := &http.Server{
		Handler:           httpapi.NewHandler(simulator, catalog),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		grpcListener: grpcListener,
		httpListener: httpListener,
		grpcServer:   grpcServer,
		httpServer:   httpServer,
		health:       healthServer,
		store:        store,
		env:          cfg.Env,
	}, nil
}

// GRPCAddr returns the bound gRPC listener address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// HTTPAddr returns the bound HTTP listener address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves an arena server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs both listeners until ctx is cancelled or one of them fails,
// then shuts both down.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	defer s.Close()

	log.Printf("arena server (%s) gRPC listening at %v, HTTP listening at %v", s.env, s.grpcListener.Addr(), s.httpListener.Addr())
	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- s.grpcServer.Serve(s.grpcListener)
	}()
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-grpcErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr = fmt.Errorf("serve gRPC: %w", err)
		}
		grpcErr <- nil
	case err := <-httpErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve HTTP: %w", err)
		}
		httpErr <- nil
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown HTTP server: %v", err)
	}
	s.grpcServer.GracefulStop()
	<-grpcErr
	<-httpErr
	return serveErr
}

// Close releases arena server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close arena store: %v", err)
		}
	}
}

// OpenStore opens the sqlite catalog at path, creating its directory when
// needed. A blank path uses data/arena.db.
func OpenStore(ctx context.Context, path string) (*arenasqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "arena.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := arenasqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open arena sqlite store: %w", err)
	}
	return store, nil
}
