package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/burnoracle/app/health"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

// QuerySource opens a read-only view of the latest committed state. release
// must be called once the request is served.
type QuerySource func() (ctx context.Context, qs types.QueryServer, release func(), err error)

// Server is the read-only REST gateway over the oracle query server
type Server struct {
	router     *gin.Engine
	source     QuerySource
	health     *health.Checker
	config     *Config
	logger     log.Logger
	httpServer *http.Server
}

// Config holds the gateway settings
type Config struct {
	Port            int
	CORSOrigins     []string
	RateLimitRPS    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default gateway settings
func DefaultConfig() *Config {
	return &Config{
		Port:            1317,
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a gateway serving queries from source
func NewServer(source QuerySource, config *Config, logger log.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		source: source,
		config: config,
		logger: logger.With("module", "api"),
	}

	checker, err := health.NewChecker(s.logger, health.DefaultConfig(), s.contractStatus)
	if err != nil {
		return nil, fmt.Errorf("health checker: %w", err)
	}
	s.health = checker
	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           s.Handler(),
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.WriteTimeout,
	}

	return s, nil
}

// contractStatus reads the status of the latest committed state for health checks
func (s *Server) contractStatus(_ context.Context) (types.ContractStatus, error) {
	ctx, qs, release, err := s.source()
	if err != nil {
		return types.ContractStatus{}, err
	}
	defer release()

	res, err := qs.ContractStatus(ctx, &types.QueryContractStatusRequest{})
	if err != nil {
		return types.ContractStatus{}, err
	}
	return res.Status, nil
}

func (s *Server) setupRouter() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}

	s.registerRoutes()
}

// Handler returns the CORS-wrapped router
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})
	return c.Handler(s.router)
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info("starting REST gateway", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("REST gateway: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown REST gateway: %w", err)
	}
	s.logger.Info("REST gateway stopped")
	return nil
}
