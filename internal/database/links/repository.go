// Package links provides database operations for user/GIF/tag associations.
package links

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/records"
	"github.com/mrlokans/giftags/internal/entities"
)

const (
	FieldUserID records.Field = "user_id"
	FieldGifID  records.Field = "gif_id"
	FieldTagID  records.Field = "tag_id"
)

// Schema describes the user_gif_tags table. The three ids together form the primary key.
var Schema = records.NewSchema("user_gif_tags",
	records.FieldSpec{Name: FieldUserID, PrimaryKey: true},
	records.FieldSpec{Name: FieldGifID, PrimaryKey: true},
	records.FieldSpec{Name: FieldTagID, PrimaryKey: true},
)

// Repository handles association rows.
type Repository struct {
	*records.Repository[entities.UserGifTag]
}

// NewRepository creates a new links repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Repository: records.New[entities.UserGifTag](db, Schema)}
}

// CreateLink links a tag to a GIF for a user. Linking twice is a no-op.
func (r *Repository) CreateLink(ctx context.Context, userID, gifID, tagID uint) (*entities.UserGifTag, error) {
	return r.InsertOrUpdate(ctx, records.Values{
		FieldUserID: userID,
		FieldGifID:  gifID,
		FieldTagID:  tagID,
	})
}

// DeleteLink removes a single association and reports how many rows went away.
func (r *Repository) DeleteLink(ctx context.Context, userID, gifID, tagID uint) (int64, error) {
	return r.DeleteMany(ctx, records.Where(records.Filters{
		FieldUserID: userID,
		FieldGifID:  gifID,
		FieldTagID:  tagID,
	}))
}

// DeleteGifLinks removes every tag of a GIF for a user.
func (r *Repository) DeleteGifLinks(ctx context.Context, userID, gifID uint) (int64, error) {
	return r.DeleteMany(ctx, records.Where(records.Filters{
		FieldUserID: userID,
		FieldGifID:  gifID,
	}))
}
