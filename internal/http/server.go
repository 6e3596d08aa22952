package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/catalog-api/internal/boxoffice"
	"github.com/Clark-Hu/catalog-api/internal/config"
	"github.com/Clark-Hu/catalog-api/internal/metrics"
	"github.com/Clark-Hu/catalog-api/internal/repository"
	"github.com/Clark-Hu/catalog-api/internal/serializer"
	"github.com/Clark-Hu/catalog-api/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg        config.Config
	store      *store.Store
	repo       *repository.Repository
	serializer *serializer.Serializer
	boxOffice  boxoffice.Client
	metrics    *metrics.Collector
	logger     zerolog.Logger
	router     chi.Router
	httpSrv    *http.Server
}

// New constructs the HTTP server with base middleware and routes. boxClient
// may be nil when no upstream is configured.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, boxClient boxoffice.Client, m *metrics.Collector, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		store:      st,
		repo:       repo,
		serializer: serializer.New(repo),
		boxOffice:  boxClient,
		metrics:    m,
		logger:     logger.With().Str("component", "http").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	s.router = r

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireWriteToken)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", s.handleListMovies)
			r.Post("/", s.handleCreateMovie)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetMovie)
				r.Put("/", s.handleUpdateMovie)
				r.Patch("/", s.handleUpdateMovie)
				r.Delete("/", s.handleDeleteMovie)
				r.Post("/boxoffice", s.handleSyncBoxOffice)
			})
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/", s.handleListResources)
			r.Post("/", s.handleCreateResource)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetResource)
				r.Put("/", s.handleUpdateResource)
				r.Patch("/", s.handleUpdateResource)
				r.Delete("/", s.handleDeleteResource)
				r.Put("/likes/{userID}", s.handleLikeResource)
				r.Delete("/likes/{userID}", s.handleUnlikeResource)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Delete("/", s.handleDeleteUser)
				r.Put("/profile", s.handlePutProfile)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", s.handleListComments)
			r.Post("/", s.handleCreateComment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetComment)
				r.Patch("/", s.handleUpdateComment)
				r.Delete("/", s.handleDeleteComment)
			})
		})

		s.registerChainRoutes(r)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails. Cancelling ctx drains in-flight requests before Start
// returns ctx.Err().
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown error")
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("health check failed")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	resp := map[string]any{"status": "ok"}
	if stat := s.store.Stats(); stat != nil {
		resp["db"] = map[string]int32{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := s.logger.Info()
		if status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.RequestsInFlight.Inc()
		defer s.metrics.RequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		class := metrics.StatusClass(status)
		s.metrics.RequestsTotal.WithLabelValues(r.Method, route, class).Inc()
		s.metrics.RequestDuration.WithLabelValues(r.Method, route, class).Observe(time.Since(start).Seconds())
	})
}

// requireWriteToken guards every non-read request with the configured bearer
// token. Without a token configured the API is open.
func (s *Server) requireWriteToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if s.cfg.AuthToken != "" && !s.verifyBearer(r.Header.Get("Authorization")) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token != "" && token == s.cfg.AuthToken
}
