package arena

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls BattleService with typed payloads.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a Client over conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// SimulateBattle calls BattleService.SimulateBattle.
func (c *Client) SimulateBattle(ctx context.Context, req SimulateBattleRequest, opts ...grpc.CallOption) (SimulateBattleResponse, error) {
	var resp SimulateBattleResponse
	err := c.invoke(ctx, SimulateBattleFullMethodName, req, &resp, opts...)
	return resp, err
}

// ListCreatures calls BattleService.ListCreatures.
func (c *Client) ListCreatures(ctx context.Context, req ListCreaturesRequest, opts ...grpc.CallOption) (ListCreaturesResponse, error) {
	var resp ListCreaturesResponse
	err := c.invoke(ctx, ListCreaturesFullMethodName, req, &resp, opts...)
	return resp, err
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out, opts...); err != nil {
		return err
	}
	if err := fromStruct(out, resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}
