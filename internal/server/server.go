package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/internal/chat"
	"github.com/mediascope/visibility/internal/classify"
	"github.com/mediascope/visibility/internal/history"
	"github.com/mediascope/visibility/internal/roster"
	"github.com/mediascope/visibility/internal/visibility"
	"github.com/mediascope/visibility/pkg/logger"
)

// Server exposes the visibility API over HTTP.
type Server struct {
	entities   *roster.Roster
	signals    *visibility.Service
	classifier *classify.Classifier
	chat       *chat.Service
	history    *history.Repository
	store      cache.Store

	httpServer *http.Server
}

// New assembles the HTTP server. history may be nil when no database
// is configured; the history endpoints then answer 503.
func New(
	cfg *config.ServerConfig,
	entities *roster.Roster,
	signals *visibility.Service,
	classifier *classify.Classifier,
	chatService *chat.Service,
	historyRepo *history.Repository,
	store cache.Store,
) *Server {
	s := &Server{
		entities:   entities,
		signals:    signals,
		classifier: classifier,
		chat:       chatService,
		history:    historyRepo,
		store:      store,
	}

	gin.SetMode(ginMode(cfg.Mode))
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/entities", s.handleEntities)
		api.GET("/press", s.handlePress)
		api.GET("/youtube", s.handleVideo)
		api.GET("/wikipedia", s.handleWikipedia)
		api.GET("/trends", s.handleTrends)
		api.POST("/trends/batch", s.handleTrendsBatch)
		api.GET("/scores", s.handleScores)
		api.GET("/snapshot", s.handleSnapshot)

		api.POST("/ai/sentiment", s.handleSentiment)
		api.POST("/ai/themes", s.handleThemes)
		api.POST("/ai/chat", s.handleChat)

		api.GET("/history", s.handleHistoryList)
		api.POST("/history", s.handleHistoryRecord)

		api.POST("/cache/clear", s.handleCacheClear)
		api.GET("/cache/inspect", s.handleCacheInspect)
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func ginMode(mode string) string {
	if mode == gin.DebugMode {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// requestLogger logs one line per request through the shared logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
