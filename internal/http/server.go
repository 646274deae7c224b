package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/catalog"
	"tenantdesk/internal/config"
	"tenantdesk/internal/interview"
	"tenantdesk/internal/matching"
	"tenantdesk/internal/metrics"
	"tenantdesk/internal/services"
	"tenantdesk/internal/storage"
)

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	logger   *slog.Logger
	http     *http.Server
	sessions *interview.Manager
	closers  []func() error
}

// catalogSource is what the search handlers need from a catalog backend.
type catalogSource interface {
	catalog.TenantSource
	catalog.ListingSource
}

func NewServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{cfg: cfg, logger: logger}

	fm, err := storage.NewFileManager(cfg.DataDir, cfg.MaxChunkBytes)
	if err != nil {
		return nil, fmt.Errorf("init file manager: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	s.closers = append(s.closers, store.Close)

	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	if sqlite, ok := cat.(*catalog.SQLite); ok {
		s.closers = append(s.closers, sqlite.Close)
	}

	recorder := metrics.New()
	opts := interview.SessionOptions{
		Tick:     cfg.CountdownTick,
		Observer: recorder,
		Logger:   logger,
	}

	s.sessions = interview.NewManager(opts, cfg.SessionIdleTTL)
	if err := s.sessions.StartSweeper(cfg.SweepInterval); err != nil {
		s.Close()
		return nil, err
	}

	pdfSvc := services.NewPDFService()
	recorder.WatchRendering(pdfSvc.Generating)
	shareSvc := services.NewShareService(cfg)

	api := NewAPI(APIDeps{
		Files:       fm,
		Definitions: interview.NewDefinitions(store, cfg.BaseURL, opts),
		Sessions:    s.sessions,
		Search:      matching.NewSearcher(cat, cat),
		Reports:     services.NewReportService(pdfSvc, shareSvc, fm, store, recorder, logger),
		Share:       shareSvc,
		Metrics:     recorder,
		Logger:      logger,
	})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(MaxBodySize(cfg.MaxUploadBytes))
	engine.Use(CORS())
	registerRoutes(engine, api)

	s.engine = engine
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: engine,
	}
	return s, nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.StorageDriverBolt {
		return storage.NewBoltStore(storage.BoltPath(cfg.DataDir))
	}
	return storage.NewFileStore(cfg.DataDir)
}

func openCatalog(ctx context.Context, cfg config.Config) (catalogSource, error) {
	if cfg.CatalogDSN == "" {
		return catalog.NewSampleMemory()
	}
	return catalog.OpenSQLite(ctx, cfg.CatalogDSN)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("server listening", "addr", s.http.Addr, "storage", s.cfg.StorageDriver)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then tears every session down and
// closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.Close()
	return err
}

func (s *Server) Close() {
	if s.sessions != nil {
		s.sessions.CloseAll()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close resource", "error", err)
		}
	}
	s.closers = nil
}
