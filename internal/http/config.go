package http

import (
	"github.com/mrlokans/giftags/internal/audit"
	"github.com/mrlokans/giftags/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	GifTags  GifTagStore
	Database HealthChecker

	// Orphan tag cleanup. TaskQueue is optional; without it cleanup runs inline.
	Cleaner   tasks.OrphanTagsCleaner
	TaskQueue TaskQueue

	// Optional audit trail of tag changes
	Auditor *audit.Auditor

	// Application info
	Version string
}
