package seed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
)

const pokedexJSON = `{
  "pokemon": [
    {
      "id": 1,
      "num": "001",
      "name": "Bulbasaur",
      "img": "http://www.serebii.net/pokemongo/pokemon/001.png",
      "type": ["Grass", "Poison"],
      "height": "0.71 m",
      "weight": "6.9 kg",
      "candy": "Bulbasaur Candy",
      "candy_count": 25,
      "egg": "2 km",
      "spawn_chance": 0.69,
      "avg_spawns": 69,
      "spawn_time": "20:00",
      "multipliers": [1.58],
      "weaknesses": ["Fire", "Ice", "Flying", "Psychic"],
      "next_evolution": [{"num": "002", "name": "Ivysaur"}, {"num": "003", "name": "Venusaur"}]
    },
    {
      "id": 151,
      "num": "151",
      "name": "Mew",
      "type": ["Psychic"],
      "height": "0.41 m",
      "weight": "4.0 kg",
      "candy": "None",
      "egg": "Not in Eggs",
      "multipliers": null,
      "weaknesses": ["Bug", "Ghost", "Dark"]
    }
  ]
}`

const pokedexYAML = `pokemon:
  - id: 25
    num: "025"
    name: Pikachu
    type: [Electric]
    height: 0.41 m
    weight: 6.0 kg
    multipliers: [2.34]
    prev_evolution:
      - num: "172"
        name: Pichu
`

type fakeStore struct {
	storage.CreatureStore
	count     int
	countErr  error
	inserted  []storage.Creature
	insertErr error
}

func (s *fakeStore) CountCreatures(context.Context) (int, error) {
	return s.count, s.countErr
}

func (s *fakeStore) InsertCreatures(_ context.Context, creatures []storage.Creature) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, creatures...)
	return nil
}

func TestBootstrapFromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pokedexJSON))
	}))
	t.Cleanup(server.Close)

	store := &fakeStore{}
	seeder := New(store, server.URL, WithHTTPClient(server.Client()), WithLogger(t.Logf))
	result, err := seeder.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if result.Skipped || result.Inserted != 2 {
		t.Fatalf("result = %+v, want 2 inserted", result)
	}

	bulbasaur := store.inserted[0]
	if bulbasaur.Name != "Bulbasaur" || bulbasaur.Weight != "6.9 kg" || bulbasaur.CandyCount != 25 {
		t.Fatalf("bulbasaur = %+v", bulbasaur)
	}
	if !slices.Equal(bulbasaur.Types, []string{"Grass", "Poison"}) {
		t.Fatalf("types = %v", bulbasaur.Types)
	}
	if len(bulbasaur.NextEvolution) != 2 || bulbasaur.NextEvolution[1].Name != "Venusaur" {
		t.Fatalf("next evolution = %v", bulbasaur.NextEvolution)
	}
	if store.inserted[1].Multipliers != nil {
		t.Fatalf("mew multipliers = %v, want nil", store.inserted[1].Multipliers)
	}
}

func TestBootstrapSkipsPopulatedCatalog(t *testing.T) {
	t.Parallel()

	store := &fakeStore{count: 151}
	result, err := New(store, "", WithLogger(t.Logf)).Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if !result.Skipped || result.Existing != 151 {
		t.Fatalf("result = %+v, want skipped", result)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("inserted %d creatures into populated catalog", len(store.inserted))
	}
}

func TestBootstrapFromYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pokedex.yml")
	if err := os.WriteFile(path, []byte(pokedexYAML), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	store := &fakeStore{}
	result, err := New(store, path, WithLogger(t.Logf)).Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("result = %+v, want 1 inserted", result)
	}
	pikachu := store.inserted[0]
	if pikachu.Num != "025" || pikachu.Height != "0.41 m" || !slices.Equal(pikachu.Multipliers, []float64{2.34}) {
		t.Fatalf("pikachu = %+v", pikachu)
	}
	if len(pikachu.PrevEvolution) != 1 || pikachu.PrevEvolution[0].Name != "Pichu" {
		t.Fatalf("prev evolution = %v", pikachu.PrevEvolution)
	}
}

func TestBootstrapErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{name: "missing pokemon key", source: write("missing.json", `{"creatures": []}`), want: ErrInvalidFormat},
		{name: "null pokemon", source: write("null.json", `{"pokemon": null}`), want: ErrInvalidFormat},
		{name: "malformed json", source: write("broken.json", `{"pokemon": [`), want: ErrInvalidFormat},
		{name: "empty list", source: write("empty.yaml", "pokemon: []\n"), want: ErrNoData},
		{name: "no source", source: "", want: ErrSourceRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &fakeStore{}
			_, err := New(store, tt.source, WithLogger(t.Logf)).Bootstrap(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Bootstrap() error = %v, want %v", err, tt.want)
			}
			if len(store.inserted) != 0 {
				t.Fatal("expected nothing inserted")
			}
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	if _, err := New(&fakeStore{}, "pokedex.csv").Load(context.Background()); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := New(&fakeStore{}, server.URL, WithHTTPClient(server.Client())).Load(context.Background())
	if err == nil {
		t.Fatal("expected status error")
	}
}

func TestBootstrapPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	countErr := errors.New("disk full")
	if _, err := New(&fakeStore{countErr: countErr}, "x.json").Bootstrap(context.Background()); !errors.Is(err, countErr) {
		t.Fatalf("count error = %v, want %v", err, countErr)
	}

	path := filepath.Join(t.TempDir(), "pokedex.yaml")
	if err := os.WriteFile(path, []byte(pokedexYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := &fakeStore{insertErr: storage.ErrAlreadyExists}
	if _, err := New(store, path, WithLogger(t.Logf)).Bootstrap(context.Background()); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("insert error = %v, want ErrAlreadyExists", err)
	}
}
