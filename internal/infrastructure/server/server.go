package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/KennelOS/backend/internal/api/http"
	"github.com/GriffinCanCode/KennelOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/KennelOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/gallery"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/records"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/weather"
)

const (
	shutdownTimeout = 10 * time.Second
	reapInterval    = time.Minute
	// responses smaller than this are sent uncompressed
	gzipMinSize = 1024
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	httpSrv  *http.Server
	sessions *session.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	cancel   context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing KennelOS server",
		zap.String("port", cfg.Server.Port),
		zap.String("initial_path", cfg.Desktop.InitialPath),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("kennelos", logger.Component("tracing"))

	tree, err := loadTree(cfg.Content.TreeFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Content tree loaded", zap.Int("nodes", tree.Size()))

	// Records are seeded on first start
	store := records.New(cfg.Content.RecordsPath, logger.Component("records"))
	if n, err := store.Seed(); err != nil {
		logger.Warn("Failed to seed records", zap.Error(err))
	} else if n > 0 {
		logger.Info("Seeded records", zap.Int("count", n), zap.String("path", cfg.Content.RecordsPath))
	}

	photos := gallery.New(cfg.Content.AssetsPath, logger.Component("gallery"))
	if index, err := photos.Index(context.Background()); err != nil {
		logger.Warn("Photo gallery unavailable", zap.String("path", cfg.Content.AssetsPath), zap.Error(err))
	} else {
		logger.Info("Photo gallery indexed", zap.Int("albums", len(index)))
	}

	weatherClient := weather.New(weather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.Timeout,
	}).WithLogger(logger.Component("weather")).WithMetrics(metrics)
	if cfg.Weather.APIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY not set, weather widget disabled")
	}

	sessions := session.NewManager(tree, session.Config{
		InitialPath: cfg.Desktop.InitialPath,
		Viewport: desktop.Viewport{
			Width:  cfg.Desktop.ViewportWidth,
			Height: cfg.Desktop.ViewportHeight,
		},
		Placement: desktop.Cascade{
			Origin:     cfg.Desktop.CascadeOrigin,
			Step:       cfg.Desktop.CascadeStep,
			MinVisible: desktop.DefaultCascade().MinVisible,
		},
		EchoWindow: cfg.Desktop.EchoWindow,
	}).WithLogger(logger.Component("session")).WithMetrics(metrics)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers := apihttp.NewHandlers(sessions).
		WithRecords(store).
		WithPhotos(photos).
		WithWeather(weatherClient).
		WithMetrics(metrics).
		WithLogger(logger.Component("api"))
	wsHandler := ws.NewHandler(sessions).
		WithMetrics(metrics).
		WithLogger(logger.Component("ws"))

	// Register routes
	handlers.Register(router)
	router.GET("/sessions/:id/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler, err := compress(router)
	if err != nil {
		return nil, err
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		handler:  handler,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		tracer:   tracer,
	}, nil
}

func loadTree(file string) (*content.Tree, error) {
	if file == "" {
		return content.Default(), nil
	}
	tree, err := content.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load content tree: %w", err)
	}
	return tree, nil
}

// compress gzips responses; websocket upgrades bypass it
func compress(next http.Handler) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}
	gzipped := wrap(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		gzipped.ServeHTTP(w, r)
	}), nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the session manager
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Run starts the HTTP server and the idle session reaper. It returns nil
// after Close.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.sessions.RunReaper(ctx, s.config.Desktop.SessionIdleTTL, reapInterval)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.cancel != nil {
		s.cancel()
	}

	var shutdownErr error
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
			shutdownErr = fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}

	s.sessions.CloseAll()
	s.logger.Info("Closed all sessions")

	s.tracer.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return shutdownErr
}
