// Package sqlite provides a SQLite-backed creature catalog.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/creature-arena/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const creatureColumns = `name, source_id, num, img, types_json, height, weight,
       candy, candy_count, egg, spawn_chance, avg_spawns, spawn_time,
       multipliers_json, weaknesses_json, next_evolution_json, prev_evolution_json`

var orderClauses = map[string]string{
	storage.OrderByName:       "ORDER BY name ASC",
	storage.OrderByWeight:     "ORDER BY weight_value ASC, name ASC",
	storage.OrderByWeightDesc: "ORDER BY weight_value DESC, name ASC",
	storage.OrderByHeight:     "ORDER BY height_value ASC, name ASC",
	storage.OrderByHeightDesc: "ORDER BY height_value DESC, name ASC",
}

// Store persists the creature catalog in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite catalog at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// FindByNames returns the creatures named in names.
func (s *Store) FindByNames(ctx context.Context, names []string) ([]storage.Creature, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []storage.Creature{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = name
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+creatureColumns+` FROM creatures WHERE name IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("find creatures: %w", err)
	}
	defer rows.Close()

	out, err := scanCreatures(rows)
	if err != nil {
		return nil, fmt.Errorf("find creatures: %w", err)
	}
	return out, nil
}

// CountCreatures returns the number of catalog records.
func (s *Store) CountCreatures(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM creatures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count creatures: %w", err)
	}
	return count, nil
}

// InsertCreatures adds creatures in one transaction.
func (s *Store) InsertCreatures(ctx context.Context, creatures []storage.Creature) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(creatures) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert creatures: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO creatures (
		   `+creatureColumns+`, height_value, weight_value, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert creatures: %w", err)
	}
	defer stmt.Close()

	createdAt := s.now().UTC().UnixMilli()
	for _, c := range creatures {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("creature name is required")
		}
		row, err := encodeCreature(c)
		if err != nil {
			return fmt.Errorf("encode creature %q: %w", name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			name, c.SourceID, c.Num, c.Img, row.types, c.Height, c.Weight,
			c.Candy, c.CandyCount, c.Egg, c.SpawnChance, c.AvgSpawns, c.SpawnTime,
			row.multipliers, row.weaknesses, row.nextEvolution, row.prevEvolution,
			measure(c.Height), measure(c.Weight), createdAt,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert creature %q: %w", name, storage.ErrAlreadyExists)
			}
			return fmt.Errorf("insert creature %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert creatures: %w", err)
	}
	return nil
}

// ListCreatures returns one filtered, ordered page of creatures.
func (s *Store) ListCreatures(ctx context.Context, req storage.ListCreaturesRequest) (storage.CreaturePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CreaturePage{}, err
	}
	if req.PageSize <= 0 {
		return storage.CreaturePage{}, fmt.Errorf("page size must be greater than zero")
	}
	if req.Offset < 0 {
		return storage.CreaturePage{}, fmt.Errorf("offset must not be negative")
	}
	orderBy := req.OrderBy
	if orderBy == "" {
		orderBy = storage.OrderByName
	}
	orderClause, ok := orderClauses[orderBy]
	if !ok {
		return storage.CreaturePage{}, fmt.Errorf("unsupported order %q", req.OrderBy)
	}

	whereClause := ""
	if req.FilterClause != "" {
		whereClause = " WHERE " + req.FilterClause
	}

	page := storage.CreaturePage{Creatures: make([]storage.Creature, 0, req.PageSize)}
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM creatures`+whereClause, req.FilterParams...,
	).Scan(&page.TotalCount); err != nil {
		return storage.CreaturePage{}, fmt.Errorf("count listed creatures: %w", err)
	}

	params := append(append([]any{}, req.FilterParams...), req.PageSize+1, req.Offset)
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+creatureColumns+` FROM creatures`+whereClause+` `+orderClause+` LIMIT ? OFFSET ?`,
		params...,
	)
	if err != nil {
		return storage.CreaturePage{}, fmt.Errorf("list creatures: %w", err)
	}
	defer rows.Close()

	creatures, err := scanCreatures(rows)
	if err != nil {
		return storage.CreaturePage{}, fmt.Errorf("list creatures: %w", err)
	}
	if len(creatures) > req.PageSize {
		page.HasNextPage = true
		creatures = creatures[:req.PageSize]
	}
	page.Creatures = append(page.Creatures, creatures...)
	return page, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type encodedColumns struct {
	types         string
	multipliers   sql.NullString
	weaknesses    string
	nextEvolution string
	prevEvolution string
}

type evolutionJSON struct {
	Num  string `json:"num"`
	Name string `json:"name"`
}

func encodeCreature(c storage.Creature) (encodedColumns, error) {
	var (
		out encodedColumns
		err error
	)
	if out.types, err = encodeJSON(nonNil(c.Types)); err != nil {
		return out, err
	}
	if c.Multipliers != nil {
		encoded, err := encodeJSON(c.Multipliers)
		if err != nil {
			return out, err
		}
		out.multipliers = sql.NullString{String: encoded, Valid: true}
	}
	if out.weaknesses, err = encodeJSON(nonNil(c.Weaknesses)); err != nil {
		return out, err
	}
	if out.nextEvolution, err = encodeJSON(toEvolutionJSON(c.NextEvolution)); err != nil {
		return out, err
	}
	if out.prevEvolution, err = encodeJSON(toEvolutionJSON(c.PrevEvolution)); err != nil {
		return out, err
	}
	return out, nil
}

func scanCreatures(rows *sql.Rows) ([]storage.Creature, error) {
	var out []storage.Creature
	for rows.Next() {
		var (
			c                                   storage.Creature
			types, weaknesses, nextEvo, prevEvo string
			multipliers                         sql.NullString
		)
		if err := rows.Scan(
			&c.Name, &c.SourceID, &c.Num, &c.Img, &types, &c.Height, &c.Weight,
			&c.Candy, &c.CandyCount, &c.Egg, &c.SpawnChance, &c.AvgSpawns, &c.SpawnTime,
			&multipliers, &weaknesses, &nextEvo, &prevEvo,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(types), &c.Types); err != nil {
			return nil, fmt.Errorf("decode types for %q: %w", c.Name, err)
		}
		if multipliers.Valid {
			c.Multipliers = []float64{}
			if err := json.Unmarshal([]byte(multipliers.String), &c.Multipliers); err != nil {
				return nil, fmt.Errorf("decode multipliers for %q: %w", c.Name, err)
			}
		}
		if err := json.Unmarshal([]byte(weaknesses), &c.Weaknesses); err != nil {
			return nil, fmt.Errorf("decode weaknesses for %q: %w", c.Name, err)
		}
		var err error
		if c.NextEvolution, err = decodeEvolutions(nextEvo); err != nil {
			return nil, fmt.Errorf("decode next evolution for %q: %w", c.Name, err)
		}
		if c.PrevEvolution, err = decodeEvolutions(prevEvo); err != nil {
			return nil, fmt.Errorf("decode previous evolution for %q: %w", c.Name, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeJSON(value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func toEvolutionJSON(in []storage.Evolution) []evolutionJSON {
	out := make([]evolutionJSON, 0, len(in))
	for _, e := range in {
		out = append(out, evolutionJSON{Num: e.Num, Name: e.Name})
	}
	return out
}

func decodeEvolutions(value string) ([]storage.Evolution, error) {
	var decoded []evolutionJSON
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, nil
	}
	out := make([]storage.Evolution, 0, len(decoded))
	for _, e := range decoded {
		out = append(out, storage.Evolution{Num: e.Num, Name: e.Name})
	}
	return out, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// measure stores the numeric magnitude used by filters, or NULL when the raw
// value has none.
func measure(raw string) sql.NullFloat64 {
	v, ok := battle.ParseMeasure(raw)
	return sql.NullFloat64{Float64: v, Valid: ok}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.CreatureStore = (*Store)(nil)
