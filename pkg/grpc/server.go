package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/utils"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the API.
const ServiceName = "lims.v1.Api"

type Server struct {
	*ggrpc.Server
	health *health.Server
}

func newServer() *Server {
	s := ggrpc.NewServer(
		ggrpc.UnaryInterceptor(UnaryAuthInterceptor()),
		ggrpc.StreamInterceptor(StreamAuthInterceptor()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{Server: s, health: h}
}

func NewServer(ctx context.Context, port int) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	s := newServer()

	utils.SafelyGo(func() {
		logger.Infof(ctx, "gRPC server starting on port %d", port)
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}, func(err error) {
		logger.Errorf(ctx, "run gRPC server err: %+v", err)
	})
	return s, nil
}

// GracefulStop reports NOT_SERVING to health watchers before draining.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
