package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/giftags/internal/services"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only what it uses.

// GifTagStore is the tagging service as seen by GifsController.
// services.GifTagService implements it.
type GifTagStore interface {
	GetUserGifsWithTags(ctx context.Context, q services.GifQuery) (*services.UserGifs, error)
	GetAllUserTags(ctx context.Context, ref services.UserRef) ([]string, error)
	ReconcileGifTags(ctx context.Context, tgUserID int64, tgGifID string, tags []string) error
	DeleteUserGifTags(ctx context.Context, tgUserID int64, gifID string, idType services.GifIDType) (int64, error)
}

// HealthChecker reports whether the database answers. database.Database implements it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// TaskQueue is the slice of tasks.Client the controllers use.
type TaskQueue interface {
	EnqueueOrphanTagsCleanup() (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
