// Package seed parses seed command flags and loads a creature document into
// the arena catalog.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/louisbranch/creature-arena/internal/platform/cmd"
	server "github.com/louisbranch/creature-arena/internal/services/arena/app"
	arenaseed "github.com/louisbranch/creature-arena/internal/services/arena/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"CREATURE_ARENA_DB_PATH"     envDefault:"data/arena.db"`
	Source string `env:"CREATURE_ARENA_SEED_SOURCE"`
	// Force seeds even when the catalog already holds creatures. Duplicate
	// names still fail the insert.
	Force bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the creature catalog database")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "URL or .json/.yaml file to seed from")
	fs.BoolVar(&cfg.Force, "force", false, "Seed even when the catalog is not empty")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Source == "" {
		cfg.Source = arenaseed.DefaultSource
	}
	return cfg, nil
}

// Run seeds the catalog at cfg.DBPath and reports the result to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := server.OpenStore(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		seeder := arenaseed.New(store, cfg.Source)
		if cfg.Force {
			inserted, err := seeder.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d creatures\n", inserted)
			return nil
		}

		result, err := seeder.Bootstrap(ctx)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Fprintf(out, "catalog already has %d creatures\n", result.Existing)
			return nil
		}
		fmt.Fprintf(out, "seeded %d creatures\n", result.Inserted)
		return nil
	})
}
