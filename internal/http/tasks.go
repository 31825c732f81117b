package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/tasks"
)

// TasksController handles background task endpoints. Without a queue,
// purges run inline and task status lookups are unavailable.
type TasksController struct {
	queue     TaskQueue
	purger    tasks.DraftPurger
	retention time.Duration
}

// NewTasksController creates a new TasksController. retention is the
// default draft age used when a purge request names none.
func NewTasksController(queue TaskQueue, purger tasks.DraftPurger, retention time.Duration) *TasksController {
	return &TasksController{queue: queue, purger: purger, retention: retention}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// PurgeDraftsRequest is the optional body of POST /api/tasks/purge-drafts.
type PurgeDraftsRequest struct {
	Retention string `json:"retention,omitempty"` // Go duration, e.g. "168h"
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "purge_stale_drafts",
			Description: "Delete review drafts untouched for longer than the retention",
			Queue:       tasks.PurgeStaleDraftsTask{}.Config().Name,
		},
		{
			Type:        "purge_book_drafts",
			Description: "Delete every review draft of one book",
			Queue:       tasks.PurgeBookDraftsTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
		"queued":     tc.queue != nil,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// PurgeDrafts handles POST /api/tasks/purge-drafts
func (tc *TasksController) PurgeDrafts(c *gin.Context) {
	var req PurgeDraftsRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	retention := tc.retention
	if req.Retention != "" {
		d, err := time.ParseDuration(req.Retention)
		if err != nil || d <= 0 {
			respondBadRequest(c, "invalid retention")
			return
		}
		retention = d
	}

	ctx := c.Request.Context()
	if tc.queue != nil {
		taskID, err := tc.queue.Enqueue(ctx, tasks.PurgeStaleDraftsTask{Retention: retention})
		if err == nil {
			respondAccepted(c, "task enqueued", gin.H{
				"task_id":   taskID,
				"type":      "purge_stale_drafts",
				"retention": retention.String(),
			})
			return
		}
		log.Warn().Err(err).Msg("Failed to enqueue draft purge, running inline")
	}

	if tc.purger == nil {
		respondError(c, http.StatusServiceUnavailable, "draft purge is unavailable")
		return
	}
	deleted, err := tc.purger.PurgeStaleDrafts(ctx, retention)
	if err != nil {
		respondDomainError(c, err, "purge stale drafts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "retention": retention.String()})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
