// api/handlers/dashboard_handlers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bearcart/api/metrics"
	"bearcart/api/store"
	"bearcart/api/utils"
)

// EngineSource hands out the metrics engine for the current record store snapshot.
type EngineSource interface {
	Engine() (*metrics.Engine, error)
}

// Reloader replaces the current record store snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

type DashboardHandlers struct {
	Source       EngineSource
	DefaultRange string
	DataDir      string
}

func NewDashboardHandlers(source EngineSource, defaultRange, dataDir string) *DashboardHandlers {
	return &DashboardHandlers{
		Source:       source,
		DefaultRange: defaultRange,
		DataDir:      dataDir,
	}
}

func (h *DashboardHandlers) GetDashboard(c *gin.Context) {
	rangeName := c.DefaultQuery("range", h.DefaultRange)
	if !utils.IsValidRange(rangeName) {
		log.Printf("Unknown dashboard range %q, returning the full dataset", rangeName)
	}

	engine, err := h.Source.Engine()
	if err != nil {
		respondEngineError(c, "dashboard", err)
		return
	}

	data, err := engine.Dashboard(c.Request.Context(), rangeName)
	if err != nil {
		respondEngineError(c, "dashboard", err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *DashboardHandlers) GetQualityReport(c *gin.Context) {
	report, err := store.ReadQualityReport(h.DataDir)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Printf("Error reading quality report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read quality report", "details": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", report)
}

type AdminHandlers struct {
	Store Reloader
}

func NewAdminHandlers(r Reloader) *AdminHandlers {
	return &AdminHandlers{Store: r}
}

// Reload swaps in a freshly loaded record store. Requests already running keep the snapshot they started with.
func (h *AdminHandlers) Reload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	if err := h.Store.Reload(ctx); err != nil {
		log.Printf("Error reloading record store: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Data reloaded"})
}

// HealthCheck reports liveness only; it does not require the record store to be loaded.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respondEngineError(c *gin.Context, what string, err error) {
	if errors.Is(err, metrics.ErrServiceNotInitialized) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Metrics service not initialized. Run pipeline first."})
		return
	}
	log.Printf("Error computing %s: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute " + what, "details": err.Error()})
}
