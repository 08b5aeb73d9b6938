package battle

// Team identifies one side of a battle.
type Team int

const (
	TeamA Team = iota + 1
	TeamB
)

// String returns "A" or "B".
func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "?"
	}
}

// Label returns the display name used in results, e.g. "Team A".
func (t Team) Label() string {
	return "Team " + t.String()
}

// winner applies the tie rule: A wins only on a strictly greater score.
func winner(scoreA, scoreB float64) Team {
	if scoreA > scoreB {
		return TeamA
	}
	return TeamB
}
