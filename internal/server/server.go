// Package server exposes an entry store and a board store over the HTTP API
// that the apiclient package consumes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/ledger"
)

// Options configures the router.
type Options struct {
	Log          *zap.SugaredLogger
	AllowOrigins []string
}

type handler struct {
	entries ledger.EntryStore
	boards  kanban.BoardStore
	log     *zap.SugaredLogger
}

// NewRouter returns the API routes backed by the given stores.
func NewRouter(entries ledger.EntryStore, boards kanban.BoardStore, opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &handler{entries: entries, boards: boards, log: log}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/time-entries", h.listEntries)
		api.POST("/time-entries", h.createEntry)
		api.PATCH("/time-entries/:id", h.updateEntry)

		api.GET("/kanban/boards", h.fetchBoards)
		api.POST("/kanban/columns/:id/cards", h.createCard)
		api.POST("/kanban/cards/:id/move", h.moveCard)
		api.PATCH("/kanban/cards/:id", h.updateCard)
		api.DELETE("/kanban/cards/:id", h.deleteCard)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// RequestLogger logs every request with a request id, which is also
// returned in the X-Request-ID header.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Infow("request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"latency", time.Since(start).String(),
		)
	}
}
