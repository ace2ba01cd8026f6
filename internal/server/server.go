package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ChartDesk/internal/chart"
	"ChartDesk/internal/logger"
	"ChartDesk/internal/metrics"
	"ChartDesk/internal/model"
	"ChartDesk/internal/pipeline"
	"ChartDesk/internal/strategy"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Viewer runs the chart pipeline for a request.
type Viewer interface {
	Render(ctx context.Context, req model.ViewRequest) (*pipeline.Result, error)
	Strategies(ctx context.Context, req model.ViewRequest) (strategy.Result, error)
	LegendAt(ctx context.Context, req model.ViewRequest, at time.Time) (chart.LegendSnapshot, error)
}

// Config configures the HTTP server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes the dashboard over HTTP.
type Server struct {
	cfg    Config
	viewer Viewer
	router *gin.Engine
}

// New creates a Server with every route registered.
func New(cfg Config, viewer Viewer) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog())

	s := &Server{cfg: cfg, viewer: viewer, router: router}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/chart", s.handleChartPage)

	api := s.router.Group("/api")
	api.GET("/chart", s.handleChart)
	api.GET("/strategies", s.handleStrategies)
	api.GET("/legend", s.handleLegend)
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("http server listening", logger.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleChart(c *gin.Context) {
	req, ok := bindView(c)
	if !ok {
		return
	}
	res, err := s.viewer.Render(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleStrategies(c *gin.Context) {
	req, ok := bindView(c)
	if !ok {
		return
	}
	res, err := s.viewer.Strategies(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": req.Symbol, "strategies": res.Ordered(), "active": res.ActiveCount()})
}

func (s *Server) handleLegend(c *gin.Context) {
	req, ok := bindView(c)
	if !ok {
		return
	}
	at, err := parseTime(c.Query("at"))
	if err != nil {
		writeError(c, err)
		return
	}
	snap, err := s.viewer.LegendAt(c.Request.Context(), req, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleChartPage(c *gin.Context) {
	req, ok := bindView(c)
	if !ok {
		return
	}
	res, err := s.viewer.Render(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	title := req.Symbol + " " + string(req.Frequency)
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderHTML(c.Writer, title, res.Timeline, res.FullPanes, res.Range); err != nil {
		logger.WithContext(c.Request.Context()).Error("render chart page", logger.ErrorField(err))
	}
}

type viewQuery struct {
	Symbol     string   `form:"symbol" binding:"required"`
	Period     string   `form:"period" default:"2y"`
	Frequency  string   `form:"frequency" default:"daily"`
	From       string   `form:"from"`
	To         string   `form:"to"`
	Indicators []string `form:"indicators"`
}

// bindView parses the query string into a ViewRequest. It writes the error
// response itself and reports false on failure.
func bindView(c *gin.Context) (model.ViewRequest, bool) {
	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.ViewRequest{}, false
	}
	if err := defaults.Set(&q); err != nil {
		writeError(c, err)
		return model.ViewRequest{}, false
	}
	from, err := parseTime(q.From)
	if err != nil {
		writeError(c, err)
		return model.ViewRequest{}, false
	}
	to, err := parseTime(q.To)
	if err != nil {
		writeError(c, err)
		return model.ViewRequest{}, false
	}
	req, err := model.NewViewRequest(q.Symbol, q.Period, q.Frequency, from, to, q.Indicators)
	if err != nil {
		writeError(c, err)
		return model.ViewRequest{}, false
	}
	return req, true
}

// parseTime accepts unix seconds or a YYYY-MM-DD date. Empty means zero.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.Join(model.ErrInvalidRequest, err)
	}
	return t, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed", logger.ErrorField(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(elapsed.Seconds())
		metrics.RequestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		logger.WithContext(c.Request.Context()).Info("http request",
			logger.String("method", c.Request.Method),
			logger.String("route", route),
			logger.Int("status", c.Writer.Status()),
			logger.Duration(elapsed),
		)
	}
}
