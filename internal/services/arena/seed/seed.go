// Package seed fills an empty creature catalog from a remote or local
// pokedex document.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/creature-arena/internal/platform/timeouts"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
)

// DefaultSource is the public pokedex document used when no source is set.
const DefaultSource = "https://raw.githubusercontent.com/Biuni/PokemonGO-Pokedex/master/pokedex.json"

// maxDocumentBytes caps how much of a seed document is read.
const maxDocumentBytes = 32 << 20

var (
	// ErrInvalidFormat is returned when a document has no creature list.
	ErrInvalidFormat = errors.New("invalid data format")
	// ErrNoData is returned when the creature list is empty.
	ErrNoData = errors.New("no creature data found")
	// ErrSourceRequired is returned when no source is configured.
	ErrSourceRequired = errors.New("seed source is required")
)

// Result summarizes a bootstrap run.
type Result struct {
	Skipped  bool
	Existing int
	Inserted int
}

// Seeder loads a seed document into a creature store.
type Seeder struct {
	store  storage.CreatureStore
	source string
	client *http.Client
	logf   func(string, ...any)
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithHTTPClient overrides the client used for http(s) sources.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Seeder) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger overrides the log function.
func WithLogger(logf func(string, ...any)) Option {
	return func(s *Seeder) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// New returns a Seeder reading source, which is an http(s) URL serving JSON
// or a path to a .json, .yaml or .yml file.
func New(store storage.CreatureStore, source string, opts ...Option) *Seeder {
	s := &Seeder{
		store:  store,
		source: strings.TrimSpace(source),
		client: &http.Client{Timeout: timeouts.SeedFetch},
		logf:   log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap seeds the store unless it already holds creatures.
func (s *Seeder) Bootstrap(ctx context.Context) (Result, error) {
	if s.store == nil {
		return Result{}, errors.New("creature store is not configured")
	}
	count, err := s.store.CountCreatures(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count creatures: %w", err)
	}
	if count > 0 {
		s.logf("seed skipped: catalog already has %d creatures", count)
		return Result{Skipped: true, Existing: count}, nil
	}

	inserted, err := s.Seed(ctx)
	if err != nil {
		s.logf("seed creatures from %s: %v", s.source, err)
		return Result{}, err
	}
	s.logf("seed complete: %d creatures", inserted)
	return Result{Inserted: inserted}, nil
}

// Seed loads the source document and inserts every creature.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	records, err := doc.Records()
	if err != nil {
		return 0, err
	}
	if err := s.store.InsertCreatures(ctx, records); err != nil {
		return 0, fmt.Errorf("insert creatures: %w", err)
	}
	return len(records), nil
}

// Load reads and decodes the source document.
func (s *Seeder) Load(ctx context.Context) (Document, error) {
	if s.source == "" {
		return Document{}, ErrSourceRequired
	}
	if strings.HasPrefix(s.source, "http://") || strings.HasPrefix(s.source, "https://") {
		data, err := s.fetch(ctx)
		if err != nil {
			return Document{}, err
		}
		return Decode(data, FormatJSON)
	}

	format, err := formatForPath(s.source)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(s.source)
	if err != nil {
		return Document{}, fmt.Errorf("read seed file: %w", err)
	}
	return Decode(data, format)
}

func (s *Seeder) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.source, nil)
	if err != nil {
		return nil, fmt.Errorf("build seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch seed document: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read seed document: %w", err)
	}
	return data, nil
}

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}
