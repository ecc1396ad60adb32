// Package grpcserver exposes the standard gRPC health service, backed by a database probe.
package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"libraryManagement/internal/config"
	"libraryManagement/internal/logging"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// Pinger reports whether the backing store is reachable. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is a gRPC server whose overall health follows the database.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	pinger Pinger
	log    logging.Logger
	every  time.Duration
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds the server and starts probing the database.
func New(cfg config.GRPCConfig, pinger Pinger, log logging.Logger) *Server {
	every := cfg.HealthProbeInterval
	if every <= 0 {
		every = 15 * time.Second
	}
	s := &Server{
		grpc:   grpc.NewServer(grpc.UnaryInterceptor(NewUnaryLoggingInterceptor(log, healthCheckMethod))),
		health: health.NewServer(),
		pinger: pinger,
		log:    log,
		every:  every,
		done:   make(chan struct{}),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.probe(ctx)
	go s.loop(ctx)
	return s
}

// Serve blocks serving lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

func (s *Server) loop(ctx context.Context) {
	defer close(s.done)
	t := time.NewTicker(s.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx)
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.PingContext(pctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("database ping failed", "err", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
}

// Stop drains in-flight RPCs, falling back to a hard stop when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()
	<-s.done
	s.health.Shutdown()
	done := make(chan struct{})
	go func() { s.grpc.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		return ctx.Err()
	}
}

// StartGRPC listens on cfg.Address and serves in the background. It returns a shutdown function.
func StartGRPC(cfg config.GRPCConfig, pinger Pinger, log logging.Logger) (func(context.Context) error, error) {
	addr := cfg.Address
	if addr == "" {
		addr = ":50051"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := New(cfg, pinger, log)
	go func() {
		log.Info("grpc server listening", "address", lis.Addr().String())
		if err := s.Serve(lis); err != nil {
			log.Error("grpc server stopped", "err", err)
		}
	}()
	return s.Stop, nil
}
