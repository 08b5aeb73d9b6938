// Package roster connects battle rosters and catalog listings to the
// creature store.
package roster

import (
	"context"
	"fmt"
	"log"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
)

// ErrCreatureNotFound is returned when a roster name has no catalog record.
var ErrCreatureNotFound = apperrors.New(apperrors.CodeCreatureNotFound, "creature not found, please check the creature name")

// Resolver resolves roster names against a creature store.
type Resolver struct {
	store storage.CreatureStore
	logf  func(string, ...any)
}

// NewResolver returns a Resolver backed by store.
func NewResolver(store storage.CreatureStore) *Resolver {
	return &Resolver{store: store, logf: log.Printf}
}

// ResolveByNames returns the creatures for names in the same order. Any
// missing name, and any storage failure, is reported as ErrCreatureNotFound.
func (r *Resolver) ResolveByNames(ctx context.Context, names []string) ([]battle.Creature, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("creature store is not configured")
	}

	records, err := r.store.FindByNames(ctx, names)
	if err != nil {
		r.logf("resolve creatures %v: %v", names, err)
		return nil, apperrors.Wrap(ErrCreatureNotFound.Code, ErrCreatureNotFound.Message, err)
	}

	byName := make(map[string]storage.Creature, len(records))
	for _, rec := range records {
		byName[rec.Name] = rec
	}

	out := make([]battle.Creature, 0, len(names))
	var missing []string
	for _, name := range names {
		rec, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, toBattleCreature(rec))
	}
	if len(missing) > 0 {
		r.logf("resolve creatures: unknown names %v", missing)
		return nil, ErrCreatureNotFound
	}
	return out, nil
}

func toBattleCreature(rec storage.Creature) battle.Creature {
	return battle.Creature{
		Name:        rec.Name,
		Weight:      rec.Weight,
		Height:      rec.Height,
		Multipliers: rec.Multipliers,
	}
}

var _ battle.CreatureResolver = (*Resolver)(nil)
