package services

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub/internal/logger"
	synchub "servicehub/internal/sync"
)

// RouterOptions collects what the HTTP surface is built from.
type RouterOptions struct {
	Handler        *Handler
	Hub            *synchub.Hub // optional; enables /ws and subscriber stats
	Log            *logger.Logger
	AccessLog      bool
	TrustedProxies []string
}

// NewRouter builds the gin engine: health probes, the event stream and
// the /api group.
func NewRouter(opts RouterOptions) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.AccessLog {
		router.Use(AccessLog(log))
	}
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies", "error", err)
	}

	cat := opts.Handler.Catalog

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		snap := cat.Snapshot()
		body := gin.H{
			"status":     "ready",
			"version":    snap.Version,
			"batch_id":   snap.BatchID,
			"updated_at": snap.UpdatedAt,
			"baseline":   snap.Baseline,
			"dynamic":    len(snap.Dynamic()),
			"upstream":   opts.Handler.Source != nil,
		}
		if opts.Hub != nil {
			stats := opts.Hub.Stats()
			body["tcp_clients"] = stats.TCPClients
			body["ws_clients"] = stats.WSClients
		}
		c.JSON(http.StatusOK, body)
	})

	if opts.Hub != nil {
		router.GET("/ws", synchub.WSHandler(opts.Hub))
	}

	opts.Handler.RegisterRoutes(router.Group("/api"))
	return router
}
