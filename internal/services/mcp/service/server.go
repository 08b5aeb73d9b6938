package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/creature-arena/internal/platform/grpc"
	"github.com/louisbranch/creature-arena/internal/platform/timeouts"
	"github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/arena"
	"github.com/louisbranch/creature-arena/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	serverName    = "creature-arena"
	serverVersion = "0.1.0"
	// defaultGRPCAddr is the arena gRPC address used when none is configured.
	defaultGRPCAddr = "localhost:8095"
)

// Config configures the MCP server runtime.
type Config struct {
	GRPCAddr string
}

// Server hosts the MCP tools backed by one arena gRPC connection.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New dials the arena at grpcAddr, waits for it to report healthy and
// registers the battle tools.
func New(ctx context.Context, grpcAddr string) (*Server, error) {
	conn, err := dialArena(ctx, grpcAddress(grpcAddr))
	if err != nil {
		return nil, err
	}
	return newServer(conn), nil
}

func newServer(conn *grpc.ClientConn) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	client := arena.NewClient(conn)
	mcp.AddTool(mcpServer, domain.SimulateBattleTool(), domain.SimulateBattleHandler(client))
	mcp.AddTool(mcpServer, domain.ListCreaturesTool(), domain.ListCreaturesHandler(client))

	return &Server{mcpServer: mcpServer, conn: conn}
}

// Run connects to the arena and serves MCP on stdio until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return runWithTransport(ctx, cfg.GRPCAddr, &mcp.StdioTransport{})
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if closeErr := s.Close(); closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func runWithTransport(ctx context.Context, grpcAddr string, transport mcp.Transport) error {
	server, err := New(ctx, grpcAddr)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

func dialArena(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	logf := func(format string, args ...any) {
		log.Printf("arena %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(ctx, addr, arena.ServiceName, timeouts.GRPCDial, logf)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageConnect {
			return nil, fmt.Errorf("connect to arena at %s: %w", addr, dialErr.Err)
		}
		return nil, fmt.Errorf("arena at %s is not healthy: %w", addr, err)
	}
	return conn, nil
}

func grpcAddress(addr string) string {
	if trimmed := strings.TrimSpace(addr); trimmed != "" {
		return trimmed
	}
	return defaultGRPCAddr
}
