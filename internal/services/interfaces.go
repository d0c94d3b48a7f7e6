package services

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs a unit of work in one database transaction.
// database.Database implements it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserRef identifies a user by internal id or Telegram id.
// The internal id wins when both are set.
type UserRef struct {
	ID   *uint
	TgID *int64
}

// IsZero reports whether neither identifier is set.
func (r UserRef) IsZero() bool {
	return r.ID == nil && r.TgID == nil
}

// GifQuery selects a user's GIFs, optionally narrowed to some Telegram GIF ids
// and to GIFs carrying every one of Tags.
type GifQuery struct {
	UserRef
	TgGifIDs []string
	Tags     []string
}

// UserGifs is a user with their tagged GIFs.
type UserGifs struct {
	ID   uint      `json:"id"`
	TgID int64     `json:"tg_id"`
	Gifs []GifTags `json:"gifs_data"`
}

// GifTags is one GIF with the tags a user attached to it.
type GifTags struct {
	ID      uint     `json:"id"`
	TgGifID string   `json:"tg_gif_id"`
	Tags    []string `json:"tags"`
}
