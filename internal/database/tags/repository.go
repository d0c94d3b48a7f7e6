// Package tags provides database operations for tags.
//
// Tags are global: the same text used by two users is one row.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.CreateTag(ctx, "funny")
package tags

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/records"
	"github.com/mrlokans/giftags/internal/entities"
)

const (
	FieldID  records.Field = "id"
	FieldTag records.Field = "tag"
)

// Schema describes the tags table.
var Schema = records.NewSchema("tags",
	records.FieldSpec{Name: FieldID, PrimaryKey: true, Generated: true},
	records.FieldSpec{Name: FieldTag, Unique: true},
)

// Repository handles all tag database operations.
type Repository struct {
	*records.Repository[entities.Tag]
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Repository: records.New[entities.Tag](db, Schema)}
}

// CreateTag returns the tag with the given text, creating it if needed.
func (r *Repository) CreateTag(ctx context.Context, text string) (*entities.Tag, error) {
	return r.InsertOrUpdate(ctx, records.Values{FieldTag: text})
}

// GetTagIDs resolves tag texts to ids. Unknown texts are absent from the result.
func (r *Repository) GetTagIDs(ctx context.Context, texts []string) (map[string]uint, error) {
	found, err := r.Find(ctx, []records.Field{FieldID, FieldTag}, records.Filters{FieldTag: texts})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(found))
	for _, t := range found {
		ids[t.Tag] = t.ID
	}
	return ids, nil
}

// CountOrphanTags counts tags that no user has attached to any GIF.
func (r *Repository) CountOrphanTags(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&entities.Tag{}).
		Where("id NOT IN (SELECT tag_id FROM user_gif_tags)").
		Count(&count).Error
	return count, err
}

// DeleteOrphanTags removes all tags that no user has attached to any GIF.
func (r *Repository) DeleteOrphanTags(ctx context.Context) (int64, error) {
	result := r.conn(ctx).Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM user_gif_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.DB().WithContext(ctx)
}
