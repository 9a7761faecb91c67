// Package httpapi serves a read-only JSON view of resolution and
// deduplication results.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/byline/internal/db"
	"horse.fit/byline/internal/globaltime"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	pool   *db.Pool
	logger zerolog.Logger
	opts   Options
}

func NewServer(pool *db.Pool, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		pool:   pool,
		logger: logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/runs", s.handleRuns)
	api.GET("/authors", s.handleAuthors)
	api.GET("/duplicate-groups", s.handleDuplicateGroups)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("byline api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("byline api server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "byline",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.queryStats(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("query stats failed")
		return internalError(c, "Failed to load stats")
	}
	return success(c, stats)
}

func (s *Server) handleRuns(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	runs, err := s.pool.ListRuns(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("query runs failed")
		return internalError(c, "Failed to load runs")
	}
	return success(c, map[string]any{
		"items": runs,
		"limit": limit,
	})
}

func (s *Server) handleAuthors(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	ctx := c.Request().Context()
	runID, ok, err := s.resolveRunID(ctx, c.QueryParam("run_id"), db.StageResolveAuthors)
	if err != nil {
		if validationErr, isValidation := err.(*runIDError); isValidation {
			return failValidation(c, map[string]string{"run_id": validationErr.message})
		}
		s.logger.Error().Err(err).Msg("resolve author run failed")
		return internalError(c, "Failed to resolve run")
	}
	if !ok {
		return failNotFound(c, "No completed author resolution run")
	}

	authors, err := s.pool.ListAuthorsForRun(ctx, runID, limit)
	if err != nil {
		s.logger.Error().Err(err).Int64("run_id", runID).Msg("query authors failed")
		return internalError(c, "Failed to load authors")
	}
	return success(c, map[string]any{
		"run_id": runID,
		"items":  authors,
		"limit":  limit,
	})
}

func (s *Server) handleDuplicateGroups(c echo.Context) error {
	limit, err := parsePositiveInt(c.QueryParam("limit"), defaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	ctx := c.Request().Context()
	runID, ok, err := s.resolveRunID(ctx, c.QueryParam("run_id"), db.StageDeduplicate)
	if err != nil {
		if validationErr, isValidation := err.(*runIDError); isValidation {
			return failValidation(c, map[string]string{"run_id": validationErr.message})
		}
		s.logger.Error().Err(err).Msg("resolve dedup run failed")
		return internalError(c, "Failed to resolve run")
	}
	if !ok {
		return failNotFound(c, "No completed deduplication run")
	}

	groups, err := s.pool.ListDuplicateGroupsForRun(ctx, runID, limit)
	if err != nil {
		s.logger.Error().Err(err).Int64("run_id", runID).Msg("query duplicate groups failed")
		return internalError(c, "Failed to load duplicate groups")
	}
	return success(c, map[string]any{
		"run_id": runID,
		"items":  groups,
		"limit":  limit,
	})
}

type runIDError struct {
	message string
}

func (e *runIDError) Error() string { return e.message }

// resolveRunID picks the run to display: an explicit run_id query
// param wins, otherwise the latest succeeded run of the stage.
func (s *Server) resolveRunID(ctx context.Context, raw, stage string) (int64, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		runID, ok, err := s.pool.LatestRunID(ctx, stage)
		if err != nil {
			return 0, false, err
		}
		return runID, ok, nil
	}

	runID, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || runID <= 0 {
		return 0, false, &runIDError{message: "must be a positive integer"}
	}
	return runID, true, nil
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
