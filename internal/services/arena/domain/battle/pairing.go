package battle

import (
	"fmt"
	"slices"
	"strings"
)

// Pairing selects how the creatures of one pass are matched and eliminated.
type Pairing int

const (
	// PairingSequential pairs A[i] with B[i] while i is below the current
	// shorter roster length, removing each loser as soon as it loses. Later
	// creatures shift down, so one pass may pair a winner again before the
	// pass ends.
	PairingSequential Pairing = iota
	// PairingSurvivors fights every aligned pair of the pass against the
	// rosters as they were when the pass started and removes the losers
	// afterwards.
	PairingSurvivors
)

// String returns the configuration name of p.
func (p Pairing) String() string {
	switch p {
	case PairingSequential:
		return "sequential"
	case PairingSurvivors:
		return "survivors"
	default:
		return fmt.Sprintf("pairing(%d)", int(p))
	}
}

// ParsePairing parses a configuration name produced by Pairing.String.
func ParsePairing(value string) (Pairing, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sequential":
		return PairingSequential, nil
	case "survivors":
		return PairingSurvivors, nil
	default:
		return 0, fmt.Errorf("unknown pairing %q", value)
	}
}

func (t *tournament) pass(p Pairing) error {
	if p == PairingSurvivors {
		return t.survivorsPass()
	}
	return t.sequentialPass()
}

func (t *tournament) sequentialPass() error {
	for i := 0; i < min(len(t.a), len(t.b)); i++ {
		res, err := t.fight(t.a[i], t.b[i])
		if err != nil {
			return err
		}
		if res.WinnerTeam == TeamA {
			t.b = slices.Delete(t.b, i, i+1)
		} else {
			t.a = slices.Delete(t.a, i, i+1)
		}
	}
	return nil
}

func (t *tournament) survivorsPass() error {
	n := min(len(t.a), len(t.b))
	lostA := make([]bool, len(t.a))
	lostB := make([]bool, len(t.b))
	for i := 0; i < n; i++ {
		res, err := t.fight(t.a[i], t.b[i])
		if err != nil {
			return err
		}
		if res.WinnerTeam == TeamA {
			lostB[i] = true
		} else {
			lostA[i] = true
		}
	}
	t.a = survivors(t.a, lostA)
	t.b = survivors(t.b, lostB)
	return nil
}

func survivors(roster []Creature, lost []bool) []Creature {
	out := make([]Creature, 0, len(roster))
	for i, c := range roster {
		if !lost[i] {
			out = append(out, c)
		}
	}
	return out
}
