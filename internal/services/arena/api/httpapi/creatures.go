package httpapi

import (
	"net/http"
	"strconv"

	"github.com/louisbranch/creature-arena/internal/services/arena/roster"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
)

type evolutionJSON struct {
	Num  string `json:"num"`
	Name string `json:"name"`
}

type creatureJSON struct {
	ID            int             `json:"id"`
	Num           string          `json:"num"`
	Name          string          `json:"name"`
	Img           string          `json:"img,omitempty"`
	Type          []string        `json:"type"`
	Height        string          `json:"height"`
	Weight        string          `json:"weight"`
	Candy         string          `json:"candy,omitempty"`
	CandyCount    int             `json:"candy_count,omitempty"`
	Egg           string          `json:"egg,omitempty"`
	SpawnChance   float64         `json:"spawn_chance"`
	AvgSpawns     float64         `json:"avg_spawns"`
	SpawnTime     string          `json:"spawn_time,omitempty"`
	Multipliers   []float64       `json:"multipliers"`
	Weaknesses    []string        `json:"weaknesses"`
	NextEvolution []evolutionJSON `json:"next_evolution,omitempty"`
	PrevEvolution []evolutionJSON `json:"prev_evolution,omitempty"`
}

type listCreaturesResponse struct {
	Creatures     []creatureJSON `json:"creatures"`
	NextPageToken string         `json:"nextPageToken"`
	TotalSize     int            `json:"totalSize"`
}

func (s *Server) handleListCreatures(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := roster.ListRequest{
		Filter:    query.Get("filter"),
		OrderBy:   query.Get("order_by"),
		PageToken: query.Get("page_token"),
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || size < 0 {
			writeError(w, r, invalidArgument("page_size must be a non-negative integer"))
			return
		}
		req.PageSize = int32(size)
	}

	result, err := s.catalog.List(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := listCreaturesResponse{
		Creatures:     make([]creatureJSON, 0, len(result.Creatures)),
		NextPageToken: result.NextPageToken,
		TotalSize:     result.TotalSize,
	}
	for _, c := range result.Creatures {
		resp.Creatures = append(resp.Creatures, toCreatureJSON(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toCreatureJSON(c storage.Creature) creatureJSON {
	return creatureJSON{
		ID:            c.SourceID,
		Num:           c.Num,
		Name:          c.Name,
		Img:           c.Img,
		Type:          c.Types,
		Height:        c.Height,
		Weight:        c.Weight,
		Candy:         c.Candy,
		CandyCount:    c.CandyCount,
		Egg:           c.Egg,
		SpawnChance:   c.SpawnChance,
		AvgSpawns:     c.AvgSpawns,
		SpawnTime:     c.SpawnTime,
		Multipliers:   c.Multipliers,
		Weaknesses:    c.Weaknesses,
		NextEvolution: toEvolutionJSON(c.NextEvolution),
		PrevEvolution: toEvolutionJSON(c.PrevEvolution),
	}
}

func toEvolutionJSON(evolutions []storage.Evolution) []evolutionJSON {
	if len(evolutions) == 0 {
		return nil
	}
	out := make([]evolutionJSON, 0, len(evolutions))
	for _, e := range evolutions {
		out = append(out, evolutionJSON{Num: e.Num, Name: e.Name})
	}
	return out
}
