package seed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
	"gopkg.in/yaml.v3"
)

// Document is the seed file layout: {"pokemon": [...]}.
type Document struct {
	// Creatures is nil when the document has no "pokemon" key.
	Creatures *[]Entry `json:"pokemon" yaml:"pokemon"`
}

// Entry is one creature as published by the pokedex data source.
type Entry struct {
	ID            int         `json:"id" yaml:"id"`
	Num           string      `json:"num" yaml:"num"`
	Name          string      `json:"name" yaml:"name"`
	Img           string      `json:"img" yaml:"img"`
	Type          []string    `json:"type" yaml:"type"`
	Height        string      `json:"height" yaml:"height"`
	Weight        string      `json:"weight" yaml:"weight"`
	Candy         string      `json:"candy" yaml:"candy"`
	CandyCount    int         `json:"candy_count" yaml:"candy_count"`
	Egg           string      `json:"egg" yaml:"egg"`
	SpawnChance   float64     `json:"spawn_chance" yaml:"spawn_chance"`
	AvgSpawns     float64     `json:"avg_spawns" yaml:"avg_spawns"`
	SpawnTime     string      `json:"spawn_time" yaml:"spawn_time"`
	Multipliers   []float64   `json:"multipliers" yaml:"multipliers"`
	Weaknesses    []string    `json:"weaknesses" yaml:"weaknesses"`
	NextEvolution []Evolution `json:"next_evolution" yaml:"next_evolution"`
	PrevEvolution []Evolution `json:"prev_evolution" yaml:"prev_evolution"`
}

// Evolution references another entry by number and name.
type Evolution struct {
	Num  string `json:"num" yaml:"num"`
	Name string `json:"name" yaml:"name"`
}

// Format identifies a seed document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses data in the given format.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported seed format %q", format)
	}
	return doc, nil
}

// Records validates doc and converts its entries to catalog records.
func (doc Document) Records() ([]storage.Creature, error) {
	if doc.Creatures == nil {
		return nil, ErrInvalidFormat
	}
	entries := *doc.Creatures
	if len(entries) == 0 {
		return nil, ErrNoData
	}
	out := make([]storage.Creature, 0, len(entries))
	for _, e := range entries {
		out = append(out, storage.Creature{
			SourceID:      e.ID,
			Num:           e.Num,
			Name:          e.Name,
			Img:           e.Img,
			Types:         e.Type,
			Height:        e.Height,
			Weight:        e.Weight,
			Candy:         e.Candy,
			CandyCount:    e.CandyCount,
			Egg:           e.Egg,
			SpawnChance:   e.SpawnChance,
			AvgSpawns:     e.AvgSpawns,
			SpawnTime:     e.SpawnTime,
			Multipliers:   e.Multipliers,
			Weaknesses:    e.Weaknesses,
			NextEvolution: toEvolutions(e.NextEvolution),
			PrevEvolution: toEvolutions(e.PrevEvolution),
		})
	}
	return out, nil
}

func toEvolutions(in []Evolution) []storage.Evolution {
	if len(in) == 0 {
		return nil
	}
	out := make([]storage.Evolution, 0, len(in))
	for _, e := range in {
		out = append(out, storage.Evolution{Num: e.Num, Name: e.Name})
	}
	return out
}
