package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	"github.com/dqai/oneapp/pkg/health"
	"github.com/dqai/oneapp/pkg/logger"
	"github.com/dqai/oneapp/pkg/tables"
)

const serviceName = "dqai"

// Server exposes health and metrics over HTTP and the gRPC health protocol
type Server struct {
	logger     logger.LoggerInterface
	checker    *health.Checker
	gatherer   prometheus.Gatherer
	router     *mux.Router
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcHealth *grpchealth.Server
	httpAddr   string
	grpcAddr   string
}

type healthResponse struct {
	Status      health.Status  `json:"status"`
	Service     string         `json:"service"`
	Timestamp   string         `json:"timestamp"`
	LastHealthy string         `json:"last_healthy"`
	TablePrefix string         `json:"table_prefix"`
	Checks      []health.Check `json:"checks"`
}

// New creates a server. Nothing listens until Start.
func New(log logger.LoggerInterface, checker *health.Checker, gatherer prometheus.Gatherer, httpPort, grpcPort int) *Server {
	var opts []grpc.ServerOption
	opts = append(opts, grpc.KeepaliveParams(keepalive.ServerParameters{
		MaxConnectionIdle: 15 * time.Second,
		MaxConnectionAge:  30 * time.Minute,
		Time:              5 * time.Second,
		Timeout:           1 * time.Second,
	}))
	opts = append(opts, grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
		MinTime:             5 * time.Second,
		PermitWithoutStream: true,
	}))

	s := &Server{
		logger:     log,
		checker:    checker,
		gatherer:   gatherer,
		router:     mux.NewRouter(),
		grpcServer: grpc.NewServer(opts...),
		grpcHealth: grpchealth.NewServer(),
		httpAddr:   fmt.Sprintf(":%d", httpPort),
		grpcAddr:   fmt.Sprintf(":%d", grpcPort),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.grpcHealth)
	s.setupRoutes()
	s.SyncHealth()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the HTTP router
func (s *Server) Handler() http.Handler {
	return s.router
}

// SyncHealth publishes the checker's overall status to gRPC health clients
func (s *Server) SyncHealth() {
	status := s.checker.ServingStatus()
	s.grpcHealth.SetServingStatus("", status)
	s.grpcHealth.SetServingStatus(serviceName, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.checker.GetOverallStatus()
	response := healthResponse{
		Status:      status,
		Service:     serviceName,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		LastHealthy: s.checker.GetLastHealthyTime().UTC().Format(time.RFC3339),
		TablePrefix: tables.Prefix(),
		Checks:      s.checker.GetAllChecks(),
	}

	code := http.StatusOK
	if status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Warnf("Failed to write health response: %v", err)
	}
}

// Start listens on both ports and serves in the background
func (s *Server) Start() error {
	grpcLis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.grpcAddr, err)
	}
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.httpAddr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.grpcServer.Serve(grpcLis); err != nil {
			s.logger.Errorf("Failed to serve gRPC: %v", err)
		}
	}()
	go func() {
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("Failed to serve HTTP: %v", err)
		}
	}()

	s.logger.Infof("Serving HTTP on %s and gRPC on %s", httpLis.Addr(), grpcLis.Addr())
	return nil
}

// Shutdown stops both servers, forcing the gRPC server down if ctx expires
// before in-flight calls finish
func (s *Server) Shutdown(ctx context.Context) error {
	s.grpcHealth.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
	return err
}
