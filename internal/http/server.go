package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bikedash/internal/adapters"
	applog "bikedash/internal/log"
	"bikedash/internal/metrics"
	"bikedash/internal/middleware/ratelimit"
	"bikedash/internal/middleware/security"
	"bikedash/internal/middleware/trace"
	"bikedash/internal/services"
	appweb "bikedash/web"
)

const staticMaxAge = 3600

// Options configures NewServer.
type Options struct {
	Addr               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	// HeaderImagePath overrides the embedded header image when set.
	HeaderImagePath string
	Logger          *applog.Logger
	Metrics         *metrics.Metrics
}

type Server struct {
	http.Server
	templates   *template.Template
	dashboard   *services.DashboardService
	charts      *adapters.ChartAdapter
	metrics     *metrics.Metrics
	limiter     *ratelimit.Limiter
	detector    *security.Detector
	logger      *applog.Logger
	headerImage string
	timeout     time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server. The limiter goroutine runs until Shutdown.
func NewServer(opts Options, dashboard *services.DashboardService) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	charts := adapters.NewChartAdapter(opts.Logger.WithComponent(applog.ComponentDashboard), opts.Metrics)
	t, err := template.New("").Funcs(templateFuncs(charts)).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static files: %w", err)
	}

	s := &Server{
		templates:   t,
		dashboard:   dashboard,
		charts:      charts,
		metrics:     opts.Metrics,
		limiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:    security.NewDetector(),
		logger:      logger,
		headerImage: opts.HeaderImagePath,
		timeout:     opts.RequestTimeout,
	}

	bounds := dashboard.Bounds()
	ds := dashboard.Dataset()
	s.metrics.SetDataset(ds.DailyRows(), ds.HourlyRows(), bounds.Start.Time, bounds.End.Time)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))
	mux.HandleFunc("GET /header-image", s.handleHeaderImage)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("GET /{$}", s.dynamic(s.handleIndex))
	mux.Handle("GET /ui/panels", s.dynamic(s.handlePanels))
	mux.Handle("GET /api/charts", s.dynamic(s.handleCharts))
	mux.Handle("GET /api/charts/{name}", s.dynamic(s.handleChart))
	mux.Handle("GET /api/bounds", s.dynamic(s.handleBounds))

	// trace sits directly around the mux so it can read the matched pattern.
	var handler http.Handler = mux
	handler = trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger, s.metrics).Middleware(handler)
	handler = s.detector.Middleware(opts.Logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      max(opts.RequestTimeout+5*time.Second, 10*time.Second),
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s, nil
}

// dynamic wraps a range-dependent route: rate limit, request-scoped logger,
// no caching, and the request timeout.
func (s *Server) dynamic(h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	if s.timeout > 0 {
		handler = http.TimeoutHandler(handler, s.timeout, "request timed out")
	}
	handler = security.NoStore(handler)
	handler = applog.ComponentMiddleware(applog.ComponentDashboard)(handler)
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(s.logger)(handler)
	return s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(handler)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path,
		"rejected_total", s.limiter.Rejected())
	if isHTMX(r) || r.URL.Path == "/" {
		TooManyRequestsError().Write(w)
		return
	}
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// Shutdown gracefully shuts down the server and the limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting HTTP server", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports the loaded dataset; the dataset is loaded before the
// server starts, so a running server is always ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ds := s.dashboard.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"rows_daily":  ds.DailyRows(),
		"rows_hourly": ds.HourlyRows(),
	})
}

func (s *Server) handleHeaderImage(w http.ResponseWriter, r *http.Request) {
	if s.headerImage != "" {
		http.ServeFile(w, r, s.headerImage)
		return
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", staticMaxAge))
	http.ServeFileFS(w, r, appweb.StaticFS, "static/header.svg")
}
