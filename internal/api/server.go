// Package api exposes the scoring engine, dashboard and advisory client over
// HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
	"github.com/dmitriimaksimovdevelop/healthai/internal/analytics"
	"github.com/dmitriimaksimovdevelop/healthai/internal/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server serves one session.
type Server struct {
	sess    *session.Session
	advisor advisor.Advisor
	dash    *analytics.Builder
	log     *zap.Logger
}

// New creates a Server. adv may be nil, in which case advisory endpoints
// answer 503.
func New(sess *session.Session, adv advisor.Advisor, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sess:    sess,
		advisor: adv,
		dash:    analytics.New(log.Named("analytics")),
		log:     log,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(s.log),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "session": s.sess.ID()})
	})

	api := router.Group("/api")
	api.GET("/ranges", s.handleRanges)
	api.GET("/classify", s.handleClassify)
	api.POST("/score", s.handleScore)
	api.GET("/risk", s.handleRisk)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/export.csv", s.handleExportCSV)
	api.GET("/export.xlsx", s.handleExportXLSX)
	api.POST("/series/regenerate", s.handleRegenerate)
	api.POST("/series/samples", s.handleAppendSample)
	api.GET("/profile", s.handleGetProfile)
	api.PUT("/profile", s.handlePutProfile)

	api.POST("/symptoms", s.handleSymptoms)
	api.POST("/treatment", s.handleTreatment)
	api.POST("/chat", s.handleChat)
	api.GET("/chat/history", s.handleChatHistory)
	api.POST("/trends", s.handleTrends)
	return router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
