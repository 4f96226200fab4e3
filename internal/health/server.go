package health

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"max.ks1230/gastos-bot/internal/logger"
)

// Server exposes the standard grpc.health.v1 service so orchestrators can
// probe the bot regardless of its run mode.
type Server struct {
	server *grpc.Server
	health *health.Server
	lis    net.Listener
}

func NewServer(port int) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create server")
	}
	return newServer(lis), nil
}

func newServer(lis net.Listener) *Server {
	rpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(rpcServer, healthServer)

	return &Server{
		server: rpcServer,
		health: healthServer,
		lis:    lis,
	}
}

func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

func (s *Server) Serve() error {
	logger.Info("gRPC health server listening", zap.Any("addr", s.lis.Addr()))
	if err := s.server.Serve(s.lis); err != nil {
		return errors.Wrap(err, "failed to serve gRPC")
	}
	return nil
}

func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.server.GracefulStop()
	logger.Info("grpc server stopped")
}
