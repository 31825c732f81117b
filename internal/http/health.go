package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// SchedulerStatus reports whether the draft cleanup job is active.
type SchedulerStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}

type HealthController struct {
	db        Pinger
	taskQueue Pinger
	scheduler SchedulerStatus
	version   string
}

func NewHealthController(db Pinger, scheduler SchedulerStatus, version string) *HealthController {
	return &HealthController{
		db:        db,
		scheduler: scheduler,
		version:   version,
	}
}

// WithTaskQueue adds a task queue check. A failing queue is reported but
// leaves the service healthy: purges fall back to running inline.
func (h *HealthController) WithTaskQueue(queue Pinger) *HealthController {
	h.taskQueue = queue
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.taskQueue != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.taskQueue.Ping(ctx); err != nil {
			checks["task_queue"] = "error: " + err.Error()
		} else {
			checks["task_queue"] = "ok"
		}
	} else {
		checks["task_queue"] = "disabled"
	}

	switch {
	case h.scheduler == nil:
		checks["draft_cleanup"] = "disabled"
	case h.scheduler.IsRunning():
		checks["draft_cleanup"] = "running"
		if next := h.scheduler.NextRunTime(); next != nil {
			checks["draft_cleanup_next_run"] = next.Format(time.RFC3339)
		}
	default:
		checks["draft_cleanup"] = "stopped"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
