// Package interceptors holds the unary interceptors of the arena gRPC server.
package interceptors

import (
	"context"
	"log"
	"time"

	grpcmeta "github.com/louisbranch/creature-arena/internal/platform/grpc/metadata"
	"github.com/louisbranch/creature-arena/internal/platform/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs one line per unary call with the method, status
// code, duration, request ID and trace ID. A nil logf uses log.Printf.
func LoggingInterceptor(logf func(string, ...any)) grpc.UnaryServerInterceptor {
	if logf == nil {
		logf = log.Printf
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		logf("grpc %s code=%s duration=%s request_id=%s trace_id=%s",
			info.FullMethod,
			status.Code(err),
			time.Since(start).Round(time.Microsecond),
			grpcmeta.RequestIDFromContext(ctx),
			otel.TraceID(ctx),
		)
		return resp, err
	}
}
