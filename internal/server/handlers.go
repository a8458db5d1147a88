package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/internal/scoring"
	"github.com/mediascope/visibility/pkg/models"
)

const (
	defaultDays = 7
	maxDays     = 365
)

// chatFallbackAnswer is served whenever the model cannot answer; the
// chat endpoint never fails the page over an environmental problem.
const chatFallbackAnswer = "Je ne peux pas répondre pour le moment, merci de réessayer."

// entityParam resolves the required "id" query parameter. Writes the
// error response itself when the entity cannot be resolved.
func (s *Server) entityParam(c *gin.Context) (models.Entity, bool) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return models.Entity{}, false
	}
	e, ok := s.entities.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity: " + id})
		return models.Entity{}, false
	}
	return e, true
}

// daysParam parses the optional "days" query parameter.
func daysParam(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("days", strconv.Itoa(defaultDays))
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return 0, false
	}
	return days, true
}

func validDays(days int) bool {
	return days >= 1 && days <= maxDays
}

func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{
		"status":     "ok",
		"cache":      "ok",
		"database":   "disabled",
		"classifier": s.classifier.Enabled(),
	}
	if err := s.store.Ping(c.Request.Context()); err != nil {
		health["cache"] = "unavailable"
	}
	if s.history != nil {
		health["database"] = "ok"
	}
	c.JSON(http.StatusOK, health)
}

func (s *Server) handleEntities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": s.entities.Entities()})
}

func (s *Server) handlePress(c *gin.Context) {
	e, ok := s.entityParam(c)
	if !ok {
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.signals.Press(c.Request.Context(), e, days))
}

func (s *Server) handleVideo(c *gin.Context) {
	e, ok := s.entityParam(c)
	if !ok {
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.signals.Video(c.Request.Context(), e, days))
}

func (s *Server) handleWikipedia(c *gin.Context) {
	e, ok := s.entityParam(c)
	if !ok {
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.signals.Wikipedia(c.Request.Context(), e, days))
}

func (s *Server) handleTrends(c *gin.Context) {
	e, ok := s.entityParam(c)
	if !ok {
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.signals.Trends(c.Request.Context(), e, days))
}

func (s *Server) handleTrendsBatch(c *gin.Context) {
	var req struct {
		Days int `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Days == 0 {
		req.Days = defaultDays
	}
	if !validDays(req.Days) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return
	}

	scores := s.signals.TrendsBatch(c.Request.Context(), s.entities.Entities(), req.Days)
	c.JSON(http.StatusOK, gin.H{"scores": scores, "days": req.Days})
}

func (s *Server) handleScores(c *gin.Context) {
	days, ok := daysParam(c)
	if !ok {
		return
	}

	snapshots := s.signals.Snapshots(c.Request.Context(), s.entities.Entities(), days)
	signals := make([]models.RawSignals, len(snapshots))
	for i := range snapshots {
		signals[i] = snapshots[i].RawSignals()
	}

	board := scoring.Compute(signals, days)
	c.JSON(http.StatusOK, gin.H{"scores": board.Scores, "leader": board.Leader, "totals": board.Totals, "days": days})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	e, ok := s.entityParam(c)
	if !ok {
		return
	}
	days, ok := daysParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.signals.Snapshot(c.Request.Context(), e, days))
}

type classifyRequest struct {
	ID   string `json:"id"`
	Days int    `json:"days"`
}

// resolveClassifyRequest validates the body shared by the sentiment
// and themes endpoints and gathers the headline set.
func (s *Server) resolveClassifyRequest(c *gin.Context) (models.Entity, []string, bool) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return models.Entity{}, nil, false
	}
	if req.Days == 0 {
		req.Days = defaultDays
	}
	if !validDays(req.Days) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return models.Entity{}, nil, false
	}

	e, ok := s.entities.Get(req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity: " + req.ID})
		return models.Entity{}, nil, false
	}

	press := s.signals.Press(c.Request.Context(), e, req.Days)
	titles := make([]string, 0, len(press.Articles))
	for _, article := range press.Articles {
		titles = append(titles, article.Title)
	}
	return e, titles, true
}

func (s *Server) handleSentiment(c *gin.Context) {
	e, titles, ok := s.resolveClassifyRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.classifier.Sentiment(c.Request.Context(), e.ID, e.Name, titles))
}

func (s *Server) handleThemes(c *gin.Context) {
	e, titles, ok := s.resolveClassifyRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.classifier.Themes(c.Request.Context(), e.ID, e.Name, titles))
}

func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		Days     int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	if req.Days == 0 {
		req.Days = defaultDays
	}
	if !validDays(req.Days) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return
	}
	if !s.chat.Enabled() {
		c.JSON(http.StatusOK, gin.H{
			"answer": chatFallbackAnswer,
			"error":  "chat model not configured",
		})
		return
	}

	ctx := c.Request.Context()
	snapshots := s.signals.Snapshots(ctx, s.entities.Entities(), req.Days)
	signals := make([]models.RawSignals, len(snapshots))
	for i := range snapshots {
		signals[i] = snapshots[i].RawSignals()
	}
	board := scoring.Compute(signals, req.Days)

	answer, err := s.chat.Ask(ctx, req.Question, board, snapshots, req.Days)
	if err != nil {
		// Model failure is environmental, not a caller error.
		c.JSON(http.StatusOK, gin.H{
			"answer": chatFallbackAnswer,
			"error":  "chat request failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) handleHistoryList(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history database not configured"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	if id := c.Query("id"); id != "" {
		if _, ok := s.entities.Get(id); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity: " + id})
			return
		}
		records, err := s.history.ListByEntity(ctx, id, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
		return
	}

	records, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleHistoryRecord(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history database not configured"})
		return
	}

	var req struct {
		Days int `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Days == 0 {
		req.Days = defaultDays
	}
	if !validDays(req.Days) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 365"})
		return
	}

	ctx := c.Request.Context()
	snapshots := s.signals.Snapshots(ctx, s.entities.Entities(), req.Days)
	signals := make([]models.RawSignals, len(snapshots))
	for i := range snapshots {
		signals[i] = snapshots[i].RawSignals()
	}
	board := scoring.Compute(signals, req.Days)

	if err := s.history.RecordBoard(ctx, board, req.Days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record scores"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": len(board.Scores), "days": req.Days})
}

func (s *Server) handleCacheClear(c *gin.Context) {
	var req struct {
		Pattern string `json:"pattern"`
	}
	// Body is optional; an empty pattern clears everything we own.
	_ = c.ShouldBindJSON(&req)
	if req.Pattern == "" {
		req.Pattern = cache.Version + ":*"
	}

	deleted := s.store.DeletePattern(c.Request.Context(), req.Pattern)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "pattern": req.Pattern})
}

func (s *Server) handleCacheInspect(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", cache.Version+":*")
	keys := s.store.Keys(c.Request.Context(), pattern)
	if keys == nil {
		keys = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys), "pattern": pattern})
}
