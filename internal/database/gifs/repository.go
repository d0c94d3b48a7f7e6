// Package gifs provides database operations for GIFs.
package gifs

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/records"
	"github.com/mrlokans/giftags/internal/entities"
)

const (
	FieldID      records.Field = "id"
	FieldTgGifID records.Field = "tg_gif_id"
)

// Schema describes the gifs table.
var Schema = records.NewSchema("gifs",
	records.FieldSpec{Name: FieldID, PrimaryKey: true, Generated: true},
	records.FieldSpec{Name: FieldTgGifID, Unique: true},
)

// Repository handles GIF rows.
type Repository struct {
	*records.Repository[entities.Gif]
}

// NewRepository creates a new gifs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Repository: records.New[entities.Gif](db, Schema)}
}

// CreateGif returns the GIF with the given Telegram id, creating it if needed.
func (r *Repository) CreateGif(ctx context.Context, tgGifID string) (*entities.Gif, error) {
	return r.InsertOrUpdate(ctx, records.Values{FieldTgGifID: tgGifID})
}

// GetGifByTgID returns the GIF with the given Telegram id, or nil when unknown.
func (r *Repository) GetGifByTgID(ctx context.Context, tgGifID string) (*entities.Gif, error) {
	found, err := r.Find(ctx, nil, records.Filters{FieldTgGifID: tgGifID})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}
