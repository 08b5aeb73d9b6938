package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/creature-arena/internal/platform/grpc"
	arenaservice "github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/arena"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
)

const seedYAML = `pokemon:
  - {id: 1, num: "001", name: Bulbasaur, type: [Grass, Poison], height: 0.71 m, weight: 6.9 kg, multipliers: [1.58]}
  - {id: 4, num: "004", name: Charmander, type: [Fire], height: 0.61 m, weight: 8.5 kg, multipliers: [1.65]}
  - {id: 7, num: "007", name: Squirtle, type: [Water], height: 0.51 m, weight: 9.0 kg, multipliers: [2.1]}
  - {id: 25, num: "025", name: Pikachu, type: [Electric], height: 0.41 m, weight: 6.0 kg, multipliers: [2.34]}
`

func startServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "pokedex.yaml")
	if err := os.WriteFile(source, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	srv, err := New(context.Background(), Config{
		GRPCAddr:    "127.0.0.1:0",
		HTTPAddr:    "127.0.0.1:0",
		DBPath:      filepath.Join(dir, "nested", "arena.db"),
		SeedSource:  source,
		SeedOnStart: true,
		Pairing:     battle.PairingSequential,
		Env:         "test",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return srv
}

func TestServerServesHTTPAndGRPC(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	conn, err := platformgrpc.DialWithHealth(ctx, srv.GRPCAddr(), arenaservice.ServiceName, 5*time.Second, t.Logf)
	if err != nil {
		t.Fatalf("dial arena: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	resp, err := arenaservice.NewClient(conn).SimulateBattle(ctx, arenaservice.SimulateBattleRequest{
		TeamA: []string{"Pikachu", "Charmander"},
		TeamB: []string{"Bulbasaur", "Squirtle"},
	})
	if err != nil {
		t.Fatalf("simulate battle: %v", err)
	}
	if resp.Result != "Team B wins the battle!" || len(resp.Log) != 4 {
		t.Fatalf("grpc response = %+v", resp)
	}

	list, err := arenaservice.NewClient(conn).ListCreatures(ctx, arenaservice.ListCreaturesRequest{Filter: "weight > 8.0", OrderBy: "weight desc"})
	if err != nil {
		t.Fatalf("list creatures: %v", err)
	}
	if len(list.Creatures) != 2 || list.Creatures[0].Name != "Squirtle" || list.Creatures[1].Name != "Charmander" {
		t.Fatalf("creatures = %+v", list.Creatures)
	}

	httpResp, err := http.Post("http://"+srv.HTTPAddr()+"/api/battles", "application/json",
		strings.NewReader(`{"teamA":["Pikachu"],"teamB":["Squirtle"]}`))
	if err != nil {
		t.Fatalf("post battle: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", httpResp.StatusCode, http.StatusCreated)
	}
	var body struct {
		WinnerTeam string   `json:"winnerTeam"`
		Log        []string `json:"log"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.WinnerTeam != "Team B" || len(body.Log) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestNewFailsWhenSeedingFails(t *testing.T) {
	dir := t.TempDir()
	_, err := New(context.Background(), Config{
		GRPCAddr:    "127.0.0.1:0",
		HTTPAddr:    "127.0.0.1:0",
		DBPath:      filepath.Join(dir, "arena.db"),
		SeedSource:  filepath.Join(dir, "missing.json"),
		SeedOnStart: true,
	})
	if err == nil {
		t.Fatal("expected seed error")
	}
}

func TestNewSkipsSeedingWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	srv, err := New(context.Background(), Config{
		GRPCAddr: "127.0.0.1:0",
		HTTPAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(dir, "arena.db"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	srv.Close()
}
