// Package storage defines persistence contracts for the creature catalog.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates a requested catalog record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a creature name is already in the catalog.
	ErrAlreadyExists = errors.New("record already exists")
)

// Order keys accepted by ListCreaturesRequest.OrderBy.
const (
	OrderByName       = "name"
	OrderByWeight     = "weight"
	OrderByWeightDesc = "weight desc"
	OrderByHeight     = "height"
	OrderByHeightDesc = "height desc"
)

// OrderByOptions lists every accepted order key.
var OrderByOptions = []string{OrderByName, OrderByWeight, OrderByWeightDesc, OrderByHeight, OrderByHeightDesc}

// Evolution references another creature in an evolution chain.
type Evolution struct {
	Num  string
	Name string
}

// Creature is one catalog record.
type Creature struct {
	SourceID      int
	Num           string
	Name          string
	Img           string
	Types         []string
	Height        string
	Weight        string
	Candy         string
	CandyCount    int
	Egg           string
	SpawnChance   float64
	AvgSpawns     float64
	SpawnTime     string
	Multipliers   []float64
	Weaknesses    []string
	NextEvolution []Evolution
	PrevEvolution []Evolution
}

// ListCreaturesRequest selects one page of creatures.
type ListCreaturesRequest struct {
	PageSize int
	Offset   int
	// OrderBy is one of OrderByOptions; empty means OrderByName.
	OrderBy string
	// FilterClause is an optional SQL WHERE fragment over the filterable
	// columns, with FilterParams as its positional arguments.
	FilterClause string
	FilterParams []any
}

// CreaturePage is one page of creatures.
type CreaturePage struct {
	Creatures   []Creature
	HasNextPage bool
	TotalCount  int
}

// CreatureStore persists the creature catalog.
type CreatureStore interface {
	// FindByNames returns the creatures whose names are in names, in no
	// particular order. Unknown names are omitted.
	FindByNames(ctx context.Context, names []string) ([]Creature, error)
	// CountCreatures returns the number of catalog records.
	CountCreatures(ctx context.Context) (int, error)
	// InsertCreatures adds creatures atomically. A duplicate name fails the
	// whole batch with ErrAlreadyExists.
	InsertCreatures(ctx context.Context, creatures []Creature) error
	// ListCreatures returns one filtered, ordered page.
	ListCreatures(ctx context.Context, req ListCreaturesRequest) (CreaturePage, error)
}
