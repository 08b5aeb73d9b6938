package battle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// LogHeader is the first line of every battle log.
const LogHeader = "Battle log:"

// Outcome is the result of a whole tournament.
type Outcome struct {
	// Result is the headline, e.g. "Team B wins the battle!".
	Result     string
	TeamAScore int
	TeamBScore int
	WinnerTeam Team
	// Log holds LogHeader followed by one line per pairing.
	Log []string
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithPairing sets the pairing policy. The default is PairingSequential.
func WithPairing(p Pairing) Option {
	return func(s *Simulator) {
		s.pairing = p
	}
}

// Simulator validates rosters, resolves them and runs the tournament.
type Simulator struct {
	resolver CreatureResolver
	pairing  Pairing
}

// NewSimulator returns a Simulator that resolves names with resolver.
func NewSimulator(resolver CreatureResolver, opts ...Option) *Simulator {
	s := &Simulator{resolver: resolver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pairing returns the configured pairing policy.
func (s *Simulator) Pairing() Pairing {
	return s.pairing
}

// Simulate battles rosterA against rosterB.
//
// Rosters sharing a name fail with ErrConflict before any lookup. Team A is
// resolved before team B and resolver errors are returned unchanged.
// Resolved rosters of different lengths fail with ErrConflict.
func (s *Simulator) Simulate(ctx context.Context, rosterA, rosterB []string) (Outcome, error) {
	return s.SimulateFunc(ctx, rosterA, rosterB, nil)
}

// SimulateFunc is Simulate with onLine called for every log line as it is
// produced. An error from onLine stops the tournament and is returned.
func (s *Simulator) SimulateFunc(ctx context.Context, rosterA, rosterB []string, onLine func(string) error) (Outcome, error) {
	if s.resolver == nil {
		return Outcome{}, errors.New("battle: creature resolver is not configured")
	}
	if shared(rosterA, rosterB) {
		return Outcome{}, conflict(ErrTeamsShareCreature)
	}

	teamA, err := s.resolver.ResolveByNames(ctx, rosterA)
	if err != nil {
		return Outcome{}, err
	}
	teamB, err := s.resolver.ResolveByNames(ctx, rosterB)
	if err != nil {
		return Outcome{}, err
	}
	if len(teamA) != len(teamB) {
		return Outcome{}, conflict(ErrTeamsUnequalSize)
	}

	return run(teamA, teamB, s.pairing, onLine)
}

// Run battles two resolved rosters without a resolver. Rosters of different
// lengths fail with ErrConflict.
func Run(teamA, teamB []Creature, p Pairing) (Outcome, error) {
	if len(teamA) != len(teamB) {
		return Outcome{}, conflict(ErrTeamsUnequalSize)
	}
	return run(teamA, teamB, p, nil)
}

type tournament struct {
	a, b           []Creature
	scoreA, scoreB int
	battle         int
	log            []string
	onLine         func(string) error
}

func run(teamA, teamB []Creature, p Pairing, onLine func(string) error) (Outcome, error) {
	t := &tournament{
		a:      slices.Clone(teamA),
		b:      slices.Clone(teamB),
		battle: 1,
		onLine: onLine,
	}
	if err := t.emit(LogHeader); err != nil {
		return Outcome{}, err
	}

	for len(t.a) > 0 && len(t.b) > 0 {
		if err := t.pass(p); err != nil {
			return Outcome{}, err
		}
	}

	team := TeamB
	if t.scoreA > t.scoreB {
		team = TeamA
	}
	return Outcome{
		Result:     team.Label() + " wins the battle!",
		TeamAScore: t.scoreA,
		TeamBScore: t.scoreB,
		WinnerTeam: team,
		Log:        t.log,
	}, nil
}

// fight duels a against b, records the log line and credits the winner.
func (t *tournament) fight(a, b Creature) (Result, error) {
	res, err := Duel(a, b)
	if err != nil {
		return Result{}, err
	}
	line := fmt.Sprintf("Battle %d: %s score is %s vs %s score is %s  -> %s wins",
		t.battle, a.Name, formatScore(res.ScoreA), b.Name, formatScore(res.ScoreB), res.Winner.Name)
	t.battle++
	if res.WinnerTeam == TeamA {
		t.scoreA++
	} else {
		t.scoreB++
	}
	return res, t.emit(line)
}

func (t *tournament) emit(line string) error {
	t.log = append(t.log, line)
	if t.onLine == nil {
		return nil
	}
	return t.onLine(line)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func shared(a, b []string) bool {
	names := make(map[string]struct{}, len(a))
	for _, name := range a {
		names[name] = struct{}{}
	}
	for _, name := range b {
		if _, ok := names[name]; ok {
			return true
		}
	}
	return false
}
