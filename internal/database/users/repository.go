// Package users provides database operations for bot users.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.CreateUser(ctx, tgID)
package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/records"
	"github.com/mrlokans/giftags/internal/entities"
)

const (
	FieldID   records.Field = "id"
	FieldTgID records.Field = "tg_id"
)

// Schema describes the users table.
var Schema = records.NewSchema("users",
	records.FieldSpec{Name: FieldID, PrimaryKey: true, Generated: true},
	records.FieldSpec{Name: FieldTgID, Unique: true},
)

// Repository handles user rows.
type Repository struct {
	*records.Repository[entities.User]
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Repository: records.New[entities.User](db, Schema)}
}

// CreateUser returns the user with the given Telegram id, creating it if needed.
func (r *Repository) CreateUser(ctx context.Context, tgID int64) (*entities.User, error) {
	return r.InsertOrUpdate(ctx, records.Values{FieldTgID: tgID})
}

// GetUserByTgID returns the user with the given Telegram id, or nil when unknown.
func (r *Repository) GetUserByTgID(ctx context.Context, tgID int64) (*entities.User, error) {
	found, err := r.Find(ctx, nil, records.Filters{FieldTgID: tgID})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}
