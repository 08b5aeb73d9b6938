// Package battle runs deterministic elimination tournaments between two
// rosters of creatures.
//
// The package is pure: it has no storage, transport, or logging
// dependencies. Roster names are turned into creatures through a
// CreatureResolver supplied by the caller.
package battle

import "context"

// Creature is the subset of catalog data that affects a battle.
type Creature struct {
	// Name identifies the creature in rosters and log lines. Case-sensitive.
	Name string
	// Weight is the raw catalog value, e.g. "6.0 kg".
	Weight string
	// Height is the raw catalog value, e.g. "0.41 m".
	Height string
	// Multipliers may be nil or empty.
	Multipliers []float64
}

// CreatureResolver turns roster names into creatures.
//
// Implementations return creatures in the same order as names and fail when
// any name is unknown instead of dropping it.
type CreatureResolver interface {
	ResolveByNames(ctx context.Context, names []string) ([]Creature, error)
}

// ResolverFunc adapts a function to CreatureResolver.
type ResolverFunc func(ctx context.Context, names []string) ([]Creature, error)

// ResolveByNames calls f.
func (f ResolverFunc) ResolveByNames(ctx context.Context, names []string) ([]Creature, error) {
	return f(ctx, names)
}
