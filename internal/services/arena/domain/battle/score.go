package battle

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

const (
	weightFactor = 0.5
	heightFactor = 0.3
)

// Result is the outcome of a single pairing.
type Result struct {
	Winner     Creature
	WinnerTeam Team
	ScoreA     float64
	ScoreB     float64
}

// Score computes a creature's strength:
//
//	M + weight*0.5 + height*0.3
//
// where M is 1 plus the sum of the multipliers, or 0 when there are none.
// Weight and height use the leading number of their raw strings.
func Score(c Creature) (float64, error) {
	weight, ok := ParseMeasure(c.Weight)
	if !ok {
		return 0, newAttributeError(c.Name, "weight", c.Weight)
	}
	height, ok := ParseMeasure(c.Height)
	if !ok {
		return 0, newAttributeError(c.Name, "height", c.Height)
	}

	var m float64
	if len(c.Multipliers) > 0 {
		m = 1
		for _, v := range c.Multipliers {
			m += v
		}
	}
	// Conversions keep each product rounded so no platform fuses them into
	// the additions.
	return m + float64(weight*weightFactor) + float64(height*heightFactor), nil
}

// Duel scores a against b. B wins ties.
func Duel(a, b Creature) (Result, error) {
	scoreA, err := Score(a)
	if err != nil {
		return Result{}, err
	}
	scoreB, err := Score(b)
	if err != nil {
		return Result{}, err
	}

	res := Result{WinnerTeam: winner(scoreA, scoreB), ScoreA: scoreA, ScoreB: scoreB}
	if res.WinnerTeam == TeamA {
		res.Winner = a
	} else {
		res.Winner = b
	}
	return res, nil
}

// ParseMeasure parses the numeric magnitude of a unit-suffixed catalog value
// such as "6.0 kg". It reads the longest decimal literal at the start of s
// after leading whitespace: optional sign, digits with an optional fraction,
// and an optional exponent. It reports false when no digit is present.
func ParseMeasure(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
