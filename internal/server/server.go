// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/models"
	"github.com/linkscout/linkscout/pkg/extractor"
)

// Extractor runs one extraction per call.
type Extractor interface {
	Extract(ctx context.Context, seedURL string) (*models.ExtractionResult, error)
}

// ExtractRequest is the body of POST /api/extract.
type ExtractRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server wires the extractor behind an echo instance.
type Server struct {
	echo      *echo.Echo
	extractor Extractor
	logger    *log.Logger
	cfg       config.ServerConfig
}

// New creates the HTTP server.
func New(ext Extractor, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, extractor: ext, logger: logger, cfg: cfg}

	// Every failure leaves the boundary as {"error": ...}, including panics
	// surfaced by the recover middleware.
	e.HTTPErrorHandler = s.handleError

	e.POST("/api/extract", s.handleExtract)
	e.GET("/healthz", s.handleHealth)

	return s
}

// Start blocks serving HTTP until the listener fails or is closed.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout
	s.logger.Info("listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP makes the server usable as a plain http.Handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "url is required"})
	}

	// The request context propagates caller disconnects to every in-flight
	// article fetch.
	result, err := s.extractor.Extract(c.Request().Context(), req.URL)
	if err != nil {
		if isClientError(err) {
			s.logger.Warn("extraction rejected", "url", req.URL, "error", err)
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		s.logger.Error("extraction failed", "url", req.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal server error"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		msg = fmt.Sprintf("%v", httpErr.Message)
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		msg = "internal server error"
	}
	if err := c.JSON(code, errorResponse{Error: msg}); err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}

func isClientError(err error) bool {
	return errors.Is(err, extractor.ErrInvalidURL) ||
		errors.Is(err, extractor.ErrSeedFetch) ||
		errors.Is(err, extractor.ErrNoArticles)
}
