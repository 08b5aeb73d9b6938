package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
)

// battleRequest is the body of POST /api/battles and the first frame of the
// battle stream.
type battleRequest struct {
	TeamA []any `json:"teamA"`
	TeamB []any `json:"teamB"`
}

type battleResponse struct {
	Result     string   `json:"result"`
	TeamAScore int      `json:"teamAScore"`
	TeamBScore int      `json:"teamBScore"`
	Log        []string `json:"log"`
	WinnerTeam string   `json:"winnerTeam"`
}

func newBattleResponse(outcome battle.Outcome) battleResponse {
	lines := outcome.Log
	if lines == nil {
		lines = []string{}
	}
	return battleResponse{
		Result:     outcome.Result,
		TeamAScore: outcome.TeamAScore,
		TeamBScore: outcome.TeamBScore,
		Log:        lines,
		WinnerTeam: outcome.WinnerTeam.Label(),
	}
}

func (s *Server) handleCreateBattle(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, invalidArgument("request body is too large"))
		return
	}
	teamA, teamB, err := parseBattleRequest(data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	outcome, err := s.simulator.SimulateFunc(r.Context(), teamA, teamB, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBattleResponse(outcome))
}

// parseBattleRequest decodes a battle body strictly: unknown fields, trailing
// data, missing or empty teams and non-string members are rejected.
func parseBattleRequest(data []byte) ([]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req battleRequest
	if err := dec.Decode(&req); err != nil {
		return nil, nil, invalidArgument(fmt.Sprintf("invalid request body: %v", err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, nil, invalidArgument("request body must contain a single JSON object")
	}

	teamA, err := rosterNames("teamA", req.TeamA)
	if err != nil {
		return nil, nil, err
	}
	teamB, err := rosterNames("teamB", req.TeamB)
	if err != nil {
		return nil, nil, err
	}
	return teamA, teamB, nil
}

func rosterNames(field string, values []any) ([]string, error) {
	if len(values) == 0 {
		return nil, invalidArgument(field + " must be a non-empty array")
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		name, ok := v.(string)
		if !ok {
			return nil, invalidArgument(field + " must contain only strings")
		}
		names = append(names, name)
	}
	return names, nil
}
