package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/giftags/internal/tasks"
)

// TagsController handles tag maintenance endpoints.
type TagsController struct {
	cleaner tasks.OrphanTagsCleaner
	queue   TaskQueue
}

// NewTagsController creates a new TagsController. queue may be nil.
func NewTagsController(cleaner tasks.OrphanTagsCleaner, queue TaskQueue) *TagsController {
	return &TagsController{cleaner: cleaner, queue: queue}
}

// CleanupOrphanTags removes all tags no user has attached to any GIF.
// With the task queue enabled the cleanup is enqueued (202), otherwise it runs inline (200).
// POST /api/admin/tags/cleanup
func (tc *TagsController) CleanupOrphanTags(c *gin.Context) {
	if tc.queue != nil {
		taskID, err := tc.queue.EnqueueOrphanTagsCleanup()
		if err != nil {
			respondInternalError(c, err, "enqueue cleanup task")
			return
		}
		log.Info().Str("task_id", taskID).Msg("Enqueued CleanupOrphanTagsTask")
		respondAccepted(c, "cleanup task started", gin.H{"task_id": taskID})
		return
	}

	deleted, err := tc.cleaner.DeleteOrphanTags(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "cleanup orphan tags")
		return
	}
	respondSuccessWithData(c, "orphan tags removed", gin.H{"deleted": deleted})
}
