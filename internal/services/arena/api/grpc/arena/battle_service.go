package arena

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	errori18n "github.com/louisbranch/creature-arena/internal/platform/errors/i18n"
	grpcmeta "github.com/louisbranch/creature-arena/internal/platform/grpc/metadata"
	"github.com/louisbranch/creature-arena/internal/platform/i18n"
	"github.com/louisbranch/creature-arena/internal/services/arena/domain/battle"
	"github.com/louisbranch/creature-arena/internal/services/arena/roster"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

// BattleSimulator runs battles between named rosters.
type BattleSimulator interface {
	Simulate(ctx context.Context, rosterA, rosterB []string) (battle.Outcome, error)
}

// CreatureLister pages through the creature catalog.
type CreatureLister interface {
	List(ctx context.Context, req roster.ListRequest) (roster.ListResult, error)
}

// Service implements BattleServiceServer.
type Service struct {
	simulator BattleSimulator
	catalog   CreatureLister
}

// NewService creates a BattleService backed by simulator and catalog.
func NewService(simulator BattleSimulator, catalog CreatureLister) *Service {
	return &Service{simulator: simulator, catalog: catalog}
}

// SimulateBattle runs a battle between team_a and team_b.
func (s *Service) SimulateBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := requestLocale(ctx)

	var req SimulateBattleRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, errori18n.HandleError(invalidArgument(fmt.Sprintf("invalid request: %v", err)), locale)
	}
	if len(req.TeamA) == 0 {
		return nil, errori18n.HandleError(invalidArgument("team_a must be a non-empty list"), locale)
	}
	if len(req.TeamB) == 0 {
		return nil, errori18n.HandleError(invalidArgument("team_b must be a non-empty list"), locale)
	}

	outcome, err := s.simulator.Simulate(ctx, req.TeamA, req.TeamB)
	if err != nil {
		return nil, errori18n.HandleError(err, locale)
	}
	return toStruct(SimulateBattleResponse{
		Result:     outcome.Result,
		TeamAScore: outcome.TeamAScore,
		TeamBScore: outcome.TeamBScore,
		WinnerTeam: outcome.WinnerTeam.Label(),
		Log:        outcome.Log,
	})
}

// ListCreatures returns one page of the creature catalog.
func (s *Service) ListCreatures(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	locale := requestLocale(ctx)

	var req ListCreaturesRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, errori18n.HandleError(invalidArgument(fmt.Sprintf("invalid request: %v", err)), locale)
	}
	if req.PageSize < 0 {
		return nil, errori18n.HandleError(invalidArgument("page_size must not be negative"), locale)
	}

	result, err := s.catalog.List(ctx, roster.ListRequest{
		Filter:    req.Filter,
		OrderBy:   req.OrderBy,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, errori18n.HandleError(err, locale)
	}

	resp := ListCreaturesResponse{
		Creatures:     make([]Creature, 0, len(result.Creatures)),
		NextPageToken: result.NextPageToken,
		TotalSize:     result.TotalSize,
	}
	for _, c := range result.Creatures {
		resp.Creatures = append(resp.Creatures, creatureToWire(c))
	}
	return toStruct(resp)
}

func creatureToWire(c storage.Creature) Creature {
	out := Creature{
		ID:          c.SourceID,
		Num:         c.Num,
		Name:        c.Name,
		Img:         c.Img,
		Types:       c.Types,
		Height:      c.Height,
		Weight:      c.Weight,
		Candy:       c.Candy,
		CandyCount:  c.CandyCount,
		Egg:         c.Egg,
		SpawnChance: c.SpawnChance,
		AvgSpawns:   c.AvgSpawns,
		SpawnTime:   c.SpawnTime,
		Multipliers: c.Multipliers,
		Weaknesses:  c.Weaknesses,
	}
	for _, e := range c.NextEvolution {
		out.NextEvolution = append(out.NextEvolution, Evolution{Num: e.Num, Name: e.Name})
	}
	for _, e := range c.PrevEvolution {
		out.PrevEvolution = append(out.PrevEvolution, Evolution{Num: e.Num, Name: e.Name})
	}
	return out
}

func requestLocale(ctx context.Context) string {
	return i18n.Locale(i18n.MatchAcceptLanguage(grpcmeta.LocaleFromContext(ctx)))
}

func invalidArgument(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, reason, map[string]string{"Reason": reason})
}

var _ BattleServiceServer = (*Service)(nil)
