package domain

import (
	"context"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	errori18n "github.com/louisbranch/creature-arena/internal/platform/errors/i18n"
	grpcmeta "github.com/louisbranch/creature-arena/internal/platform/grpc/metadata"
	"github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/arena"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type fakeBattleClient struct {
	battleReq  arena.SimulateBattleRequest
	battleResp arena.SimulateBattleResponse
	listReq    arena.ListCreaturesRequest
	listResp   arena.ListCreaturesResponse
	err        error
	outgoing   metadata.MD
	calls      int
}

func (c *fakeBattleClient) SimulateBattle(ctx context.Context, req arena.SimulateBattleRequest, _ ...grpc.CallOption) (arena.SimulateBattleResponse, error) {
	c.calls++
	c.battleReq = req
	c.outgoing, _ = metadata.FromOutgoingContext(ctx)
	return c.battleResp, c.err
}

func (c *fakeBattleClient) ListCreatures(ctx context.Context, req arena.ListCreaturesRequest, _ ...grpc.CallOption) (arena.ListCreaturesResponse, error) {
	c.calls++
	c.listReq = req
	c.outgoing, _ = metadata.FromOutgoingContext(ctx)
	return c.listResp, c.err
}

func TestSimulateBattleHandler(t *testing.T) {
	t.Parallel()

	client := &fakeBattleClient{battleResp: arena.SimulateBattleResponse{
		Result:     "Team B wins the battle!",
		TeamAScore: 1,
		TeamBScore: 2,
		WinnerTeam: "Team B",
		Log:        []string{"Battle log:"},
	}}
	handler := SimulateBattleHandler(client)

	res, out, err := handler(context.Background(), nil, SimulateBattleInput{
		TeamA:  []string{"Pikachu"},
		TeamB:  []string{"Squirtle"},
		Locale: "pt-BR",
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if out.Result != "Team B wins the battle!" || out.TeamBScore != 2 || out.WinnerTeam != "Team B" {
		t.Fatalf("output = %+v", out)
	}
	if !slices.Equal(client.battleReq.TeamA, []string{"Pikachu"}) || !slices.Equal(client.battleReq.TeamB, []string{"Squirtle"}) {
		t.Fatalf("request = %+v", client.battleReq)
	}
	if got := client.outgoing.Get(grpcmeta.LocaleHeader); len(got) != 1 || got[0] != "pt-BR" {
		t.Fatalf("locale metadata = %v", got)
	}
	if len(client.outgoing.Get(grpcmeta.RequestIDHeader)) != 1 || len(client.outgoing.Get(grpcmeta.InvocationIDHeader)) != 1 {
		t.Fatalf("outgoing metadata = %v", client.outgoing)
	}
	if res == nil || res.Meta[grpcmeta.RequestIDHeader] == "" {
		t.Fatalf("result meta = %+v", res)
	}
}

func TestSimulateBattleHandlerValidation(t *testing.T) {
	t.Parallel()

	client := &fakeBattleClient{}
	_, _, err := SimulateBattleHandler(client)(context.Background(), nil, SimulateBattleInput{TeamA: []string{"Pikachu"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if client.calls != 0 {
		t.Fatal("client must not be called for invalid input")
	}
}

func TestSimulateBattleHandlerLocalizedError(t *testing.T) {
	t.Parallel()

	client := &fakeBattleClient{
		err: errori18n.HandleError(apperrors.New(apperrors.CodeCreatureNotFound, "missing"), "pt-BR"),
	}
	_, _, err := SimulateBattleHandler(client)(context.Background(), nil, SimulateBattleInput{
		TeamA: []string{"Pikachu"},
		TeamB: []string{"Agumon"},
	})
	if err == nil || !strings.Contains(err.Error(), "Criatura não encontrada") {
		t.Fatalf("error = %v, want localized message", err)
	}
}

func TestListCreaturesHandler(t *testing.T) {
	t.Parallel()

	client := &fakeBattleClient{listResp: arena.ListCreaturesResponse{
		Creatures: []arena.Creature{{
			Num:         "025",
			Name:        "Pikachu",
			Types:       []string{"Electric"},
			Height:      "0.41 m",
			Weight:      "6.0 kg",
			Multipliers: []float64{2.34},
		}},
		NextPageToken: "next",
		TotalSize:     151,
	}}

	_, out, err := ListCreaturesHandler(client)(context.Background(), nil, ListCreaturesInput{
		Filter:   `name = "Pika*"`,
		OrderBy:  "weight desc",
		PageSize: 5000,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if client.listReq.PageSize != maxPageSize || client.listReq.Filter != `name = "Pika*"` || client.listReq.OrderBy != "weight desc" {
		t.Fatalf("request = %+v", client.listReq)
	}
	if len(out.Creatures) != 1 || out.Creatures[0].Name != "Pikachu" || out.NextPageToken != "next" || out.TotalSize != 151 {
		t.Fatalf("output = %+v", out)
	}

	if _, _, err := ListCreaturesHandler(client)(context.Background(), nil, ListCreaturesInput{PageSize: -1}); err == nil {
		t.Fatal("expected error for negative page size")
	}
}

func TestMergeResponseMetadata(t *testing.T) {
	t.Parallel()

	sent := ToolCallMetadata{RequestID: "sent-req", InvocationID: "sent-inv"}
	got := MergeResponseMetadata(sent, metadata.Pairs(grpcmeta.RequestIDHeader, "server-req"))
	if got.RequestID != "server-req" || got.InvocationID != "sent-inv" {
		t.Fatalf("merged = %+v", got)
	}
	if got := MergeResponseMetadata(sent, nil); got != sent {
		t.Fatalf("merged = %+v, want %+v", got, sent)
	}
}
