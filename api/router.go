// Package api is the admin surface: run status, manual triggers and
// settings edits. The feed itself is served from the uploads root by
// the site, not from here.
package api

import (
	"github.com/gin-gonic/gin"

	"efewire/notices"
	"efewire/pipeline"
	"efewire/settings"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(p *pipeline.Pipeline, store settings.Store, log *notices.Log) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	h := &handlers{pipeline: p, store: store, log: log}
	r.GET("/api/health", h.health)
	r.GET("/api/status", h.status)
	r.POST("/api/run", h.run)
	r.GET("/api/settings", h.getSettings)
	r.PUT("/api/settings", h.putSettings)
	r.GET("/api/notices", h.recentNotices)
	return r
}
