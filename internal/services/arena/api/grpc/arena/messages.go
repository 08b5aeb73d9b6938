package arena

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// SimulateBattleRequest is the SimulateBattle request payload.
type SimulateBattleRequest struct {
	TeamA []string `json:"team_a"`
	TeamB []string `json:"team_b"`
}

// SimulateBattleResponse is the SimulateBattle response payload.
type SimulateBattleResponse struct {
	Result     string   `json:"result"`
	TeamAScore int      `json:"team_a_score"`
	TeamBScore int      `json:"team_b_score"`
	WinnerTeam string   `json:"winner_team"`
	Log        []string `json:"log"`
}

// ListCreaturesRequest is the ListCreatures request payload.
type ListCreaturesRequest struct {
	Filter    string `json:"filter,omitempty"`
	OrderBy   string `json:"order_by,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// Evolution references another creature in an evolution chain.
type Evolution struct {
	Num  string `json:"num"`
	Name string `json:"name"`
}

// Creature is one catalog entry in a ListCreatures response.
type Creature struct {
	ID            int         `json:"id"`
	Num           string      `json:"num"`
	Name          string      `json:"name"`
	Img           string      `json:"img,omitempty"`
	Types         []string    `json:"types"`
	Height        string      `json:"height"`
	Weight        string      `json:"weight"`
	Candy         string      `json:"candy,omitempty"`
	CandyCount    int         `json:"candy_count,omitempty"`
	Egg           string      `json:"egg,omitempty"`
	SpawnChance   float64     `json:"spawn_chance"`
	AvgSpawns     float64     `json:"avg_spawns"`
	SpawnTime     string      `json:"spawn_time,omitempty"`
	Multipliers   []float64   `json:"multipliers"`
	Weaknesses    []string    `json:"weaknesses"`
	NextEvolution []Evolution `json:"next_evolution,omitempty"`
	PrevEvolution []Evolution `json:"prev_evolution,omitempty"`
}

// ListCreaturesResponse is the ListCreatures response payload.
type ListCreaturesResponse struct {
	Creatures     []Creature `json:"creatures"`
	NextPageToken string     `json:"next_page_token"`
	TotalSize     int        `json:"total_size"`
}

// toStruct encodes v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

// fromStruct decodes s into v. Fields v does not declare are rejected.
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
