package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/creature-arena/internal/platform/id"
	"github.com/louisbranch/creature-arena/internal/platform/timeouts"
	"github.com/louisbranch/creature-arena/internal/services/arena/api/grpc/arena"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// maxPageSize bounds page_size before it is narrowed for the gRPC request.
const maxPageSize = 100

// BattleClient is the subset of the BattleService client the tools use.
type BattleClient interface {
	SimulateBattle(ctx context.Context, req arena.SimulateBattleRequest, opts ...grpc.CallOption) (arena.SimulateBattleResponse, error)
	ListCreatures(ctx context.Context, req arena.ListCreaturesRequest, opts ...grpc.CallOption) (arena.ListCreaturesResponse, error)
}

// SimulateBattleInput is the simulate_battle tool input.
type SimulateBattleInput struct {
	TeamA  []string `json:"team_a" jsonschema:"creature names on team A in battle order"`
	TeamB  []string `json:"team_b" jsonschema:"creature names on team B in battle order"`
	Locale string   `json:"locale,omitempty" jsonschema:"language for error messages (en-US or pt-BR)"`
}

// SimulateBattleResult is the simulate_battle tool output.
type SimulateBattleResult struct {
	Result     string   `json:"result"`
	TeamAScore int      `json:"team_a_score"`
	TeamBScore int      `json:"team_b_score"`
	WinnerTeam string   `json:"winner_team"`
	Log        []string `json:"log"`
}

// ListCreaturesInput is the list_creatures tool input.
type ListCreaturesInput struct {
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over name, num, egg, weight, height and candy_count"`
	OrderBy   string `json:"order_by,omitempty" jsonschema:"name, weight, weight desc, height or height desc"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum creatures to return (default 20, max 100)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous list_creatures call"`
	Locale    string `json:"locale,omitempty" jsonschema:"language for error messages (en-US or pt-BR)"`
}

// CreatureSummary is one creature in a list_creatures result.
type CreatureSummary struct {
	Num         string    `json:"num"`
	Name        string    `json:"name"`
	Types       []string  `json:"types"`
	Height      string    `json:"height"`
	Weight      string    `json:"weight"`
	Multipliers []float64 `json:"multipliers"`
	Weaknesses  []string  `json:"weaknesses"`
}

// ListCreaturesResult is the list_creatures tool output.
type ListCreaturesResult struct {
	Creatures     []CreatureSummary `json:"creatures"`
	NextPageToken string            `json:"next_page_token,omitempty"`
	TotalSize     int               `json:"total_size"`
}

// SimulateBattleTool defines the simulate_battle tool.
func SimulateBattleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulate_battle",
		Description: "Runs an elimination battle between two teams of creatures and returns the battle log",
	}
}

// ListCreaturesTool defines the list_creatures tool.
func ListCreaturesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_creatures",
		Description: "Lists creatures from the arena catalog with optional filtering and paging",
	}
}

// SimulateBattleHandler executes a battle through the arena service.
func SimulateBattleHandler(client BattleClient) mcp.ToolHandlerFor[SimulateBattleInput, SimulateBattleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SimulateBattleInput) (*mcp.CallToolResult, SimulateBattleResult, error) {
		if len(input.TeamA) == 0 || len(input.TeamB) == 0 {
			return nil, SimulateBattleResult{}, errors.New("team_a and team_b must each list at least one creature")
		}

		callCtx, cancel, callMeta, err := newToolCallContext(ctx, input.Locale)
		if err != nil {
			return nil, SimulateBattleResult{}, err
		}
		defer cancel()

		var header metadata.MD
		resp, err := client.SimulateBattle(callCtx, arena.SimulateBattleRequest{
			TeamA: input.TeamA,
			TeamB: input.TeamB,
		}, grpc.Header(&header))
		if err != nil {
			return nil, SimulateBattleResult{}, fmt.Errorf("simulate battle failed: %s", errorMessage(err))
		}

		result := SimulateBattleResult{
			Result:     resp.Result,
			TeamAScore: resp.TeamAScore,
			TeamBScore: resp.TeamBScore,
			WinnerTeam: resp.WinnerTeam,
			Log:        resp.Log,
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

// ListCreaturesHandler pages through the arena catalog.
func ListCreaturesHandler(client BattleClient) mcp.ToolHandlerFor[ListCreaturesInput, ListCreaturesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListCreaturesInput) (*mcp.CallToolResult, ListCreaturesResult, error) {
		if input.PageSize < 0 {
			return nil, ListCreaturesResult{}, errors.New("page_size must not be negative")
		}

		callCtx, cancel, callMeta, err := newToolCallContext(ctx, input.Locale)
		if err != nil {
			return nil, ListCreaturesResult{}, err
		}
		defer cancel()

		var header metadata.MD
		resp, err := client.ListCreatures(callCtx, arena.ListCreaturesRequest{
			Filter:    input.Filter,
			OrderBy:   input.OrderBy,
			PageSize:  int32(min(input.PageSize, maxPageSize)),
			PageToken: input.PageToken,
		}, grpc.Header(&header))
		if err != nil {
			return nil, ListCreaturesResult{}, fmt.Errorf("list creatures failed: %s", errorMessage(err))
		}

		result := ListCreaturesResult{
			Creatures:     make([]CreatureSummary, 0, len(resp.Creatures)),
			NextPageToken: resp.NextPageToken,
			TotalSize:     resp.TotalSize,
		}
		for _, c := range resp.Creatures {
			result.Creatures = append(result.Creatures, CreatureSummary{
				Num:         c.Num,
				Name:        c.Name,
				Types:       c.Types,
				Height:      c.Height,
				Weight:      c.Weight,
				Multipliers: c.Multipliers,
				Weaknesses:  c.Weaknesses,
			})
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), result, nil
	}
}

func newToolCallContext(ctx context.Context, locale string) (context.Context, context.CancelFunc, ToolCallMetadata, error) {
	invocationID, err := id.NewID()
	if err != nil {
		return nil, nil, ToolCallMetadata{}, fmt.Errorf("generate invocation id: %w", err)
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	callCtx, callMeta, err := NewOutgoingContext(runCtx, invocationID, strings.TrimSpace(locale))
	if err != nil {
		cancel()
		return nil, nil, ToolCallMetadata{}, fmt.Errorf("create request metadata: %w", err)
	}
	return callCtx, cancel, callMeta, nil
}

// errorMessage prefers the localized message attached by the arena service.
func errorMessage(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	for _, detail := range st.Details() {
		if localized, ok := detail.(*errdetails.LocalizedMessage); ok && localized.GetMessage() != "" {
			return localized.GetMessage()
		}
	}
	return st.Message()
}
