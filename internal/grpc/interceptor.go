package grpcserver

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"libraryManagement/internal/logging"
)

// NewUnaryLoggingInterceptor logs every unary call with its status code.
// Methods listed in quiet are logged at debug level when they succeed.
func NewUnaryLoggingInterceptor(log logging.Logger, quiet ...string) grpc.UnaryServerInterceptor {
	skip := make(map[string]struct{}, len(quiet))
	for _, m := range quiet {
		skip[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{"method", info.FullMethod, "code", status.Code(err).String(), "duration_ms", time.Since(start).Milliseconds()}
		switch _, isQuiet := skip[info.FullMethod]; {
		case err != nil:
			log.Error("grpc request failed", append(attrs, "err", err)...)
		case isQuiet:
			log.Debug("grpc request", attrs...)
		default:
			log.Info("grpc request", attrs...)
		}
		return resp, err
	}
}
