// Package arena parses arena command flags and starts the battle runtime.
package arena

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/creature-arena/internal/platform/cmd"
	server "github.com/louisbranch/creature-arena/internal/services/arena/app"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
)

// Config holds arena command configuration.
type Config struct {
	Port        int    `env:"CREATURE_ARENA_GRPC_PORT"     envDefault:"8095"`
	GRPCAddr    string `env:"CREATURE_ARENA_GRPC_ADDR"`
	HTTPAddr    string `env:"CREATURE_ARENA_HTTP_ADDR"     envDefault:":3000"`
	DBPath      string `env:"CREATURE_ARENA_DB_PATH"       envDefault:"data/arena.db"`
	SeedSource  string `env:"CREATURE_ARENA_SEED_SOURCE"`
	SeedOnStart bool   `env:"CREATURE_ARENA_SEED_ON_START" envDefault:"true"`
	Pairing     string `env:"CREATURE_ARENA_PAIRING"       envDefault:"sequential"`
	Env         string `env:"CREATURE_ARENA_ENV"           envDefault:"development"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The arena gRPC port")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "The arena gRPC listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The arena HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the creature catalog database")
	fs.StringVar(&cfg.SeedSource, "seed-source", cfg.SeedSource, "URL or file used to seed an empty catalog")
	fs.BoolVar(&cfg.SeedOnStart, "seed", cfg.SeedOnStart, "Seed an empty catalog on startup")
	fs.StringVar(&cfg.Pairing, "pairing", cfg.Pairing, "Battle pairing: sequential or survivors")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ServerConfig resolves cfg into runtime settings.
func (cfg Config) ServerConfig() (server.Config, error) {
	pairing, err := battle.ParsePairing(cfg.Pairing)
	if err != nil {
		return server.Config{}, err
	}
	grpcAddr := cfg.GRPCAddr
	if grpcAddr == "" {
		grpcAddr = fmt.Sprintf(":%d", cfg.Port)
	}
	return server.Config{
		GRPCAddr:    grpcAddr,
		HTTPAddr:    cfg.HTTPAddr,
		DBPath:      cfg.DBPath,
		SeedSource:  cfg.SeedSource,
		SeedOnStart: cfg.SeedOnStart,
		Pairing:     pairing,
		Env:         cfg.Env,
	}, nil
}

// Run starts the arena gRPC and HTTP APIs.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.ServerConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceArena, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
