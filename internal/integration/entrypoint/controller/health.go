package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/adapter"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker func() bool
	connectivity    adapter.Connectivity
	local           adapter.LocalStore
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	Mode         string `json:"mode"`
	PendingSync  int    `json:"pending_sync"`
	Timestamp    string `json:"timestamp"`
	LocalStoreOK bool   `json:"local_store_ok"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker func() bool, connectivity adapter.Connectivity, local adapter.LocalStore) *HealthController {
	return &HealthController{
		dbHealthChecker: dbHealthChecker,
		connectivity:    connectivity,
		local:           local,
	}
}

// Check handles GET /health requests.
// It reports the remote backend, the connectivity mode and the size of the sync queue.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	mode := "offline"
	if h.connectivity != nil && h.connectivity.IsOnline(c.Request.Context()) {
		mode = "online"
	}

	response := HealthResponse{
		Status:    "ok",
		Database:  dbStatus,
		Mode:      mode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.local != nil {
		items, err := h.local.Sync().GetAll(c.Request.Context())
		response.LocalStoreOK = err == nil
		response.PendingSync = len(items)
	}
	if !response.LocalStoreOK {
		response.Status = "degraded"
	}

	c.JSON(http.StatusOK, response)
}
