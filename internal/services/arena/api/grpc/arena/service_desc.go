// Package arena serves arena.v1.BattleService. Messages travel as
// google.protobuf.Struct values whose fields follow the JSON shapes in
// messages.go.
package arena

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "arena.v1.BattleService"

// Full method names for BattleService.
const (
	SimulateBattleFullMethodName = "/" + ServiceName + "/SimulateBattle"
	ListCreaturesFullMethodName  = "/" + ServiceName + "/ListCreatures"
)

// BattleServiceServer is the server API for BattleService.
type BattleServiceServer interface {
	SimulateBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCreatures(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// BattleServiceDesc describes BattleService for grpc.ServiceRegistrar.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SimulateBattle", Handler: simulateBattleHandler},
		{MethodName: "ListCreatures", Handler: listCreaturesHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

func simulateBattleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BattleServiceServer).SimulateBattle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SimulateBattleFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BattleServiceServer).SimulateBattle(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listCreaturesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BattleServiceServer).ListCreatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListCreaturesFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BattleServiceServer).ListCreatures(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
