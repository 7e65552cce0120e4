package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"efewire/notices"
	"efewire/pipeline"
	"efewire/settings"
	"efewire/types"
)

type handlers struct {
	pipeline *pipeline.Pipeline
	store    settings.Store
	log      *notices.Log
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *handlers) status(c *gin.Context) {
	ctx := c.Request.Context()
	enabled, _ := h.store.Get(ctx, settings.KeyEnabled)

	resp := gin.H{
		"enabled": enabled == "true",
		"stale":   h.pipeline.Stale(ctx),
	}
	if last := h.pipeline.LastRun(ctx); !last.IsZero() {
		resp["last_run"] = last.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) run(c *gin.Context) {
	report, err := h.pipeline.Run(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// statusFor maps pipeline error kinds onto admin API statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrConfig), errors.Is(err, types.ErrAuthConfig):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrAuthExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// settingsPayload carries the editable configuration keys. The secret
// is write-only: it is accepted on PUT but never echoed back.
type settingsPayload struct {
	ClientID       *string `json:"client_id,omitempty"`
	ClientSecret   *string `json:"client_secret,omitempty"`
	ProductID      *string `json:"product_id,omitempty"`
	Enabled        *bool   `json:"enabled,omitempty"`
	OutputFilename *string `json:"output_filename,omitempty"`
}

func (h *handlers) getSettings(c *gin.Context) {
	ctx := c.Request.Context()
	clientID, _ := h.store.Get(ctx, settings.KeyClientID)
	productID, _ := h.store.Get(ctx, settings.KeyProductID)
	enabled, _ := h.store.Get(ctx, settings.KeyEnabled)
	output, _ := h.store.Get(ctx, settings.KeyOutputFile)
	if output == "" {
		output = settings.DefaultOutputFile
	}

	c.JSON(http.StatusOK, gin.H{
		"client_id":       clientID,
		"product_id":      productID,
		"enabled":         enabled == "true",
		"output_filename": output,
	})
}

func (h *handlers) putSettings(c *gin.Context) {
	var payload settingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	set := func(key string, value *string) bool {
		if value == nil {
			return true
		}
		if err := h.store.Set(ctx, key, *value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return false
		}
		return true
	}

	if !set(settings.KeyClientID, payload.ClientID) ||
		!set(settings.KeyClientSecret, payload.ClientSecret) ||
		!set(settings.KeyProductID, payload.ProductID) ||
		!set(settings.KeyOutputFile, payload.OutputFilename) {
		return
	}
	if payload.Enabled != nil {
		v := "false"
		if *payload.Enabled {
			v = "true"
		}
		if err := h.store.Set(ctx, settings.KeyEnabled, v); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	h.log.Infof("api: settings updated")
	h.getSettings(c)
}

func (h *handlers) recentNotices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": h.log.Recent(50)})
}
