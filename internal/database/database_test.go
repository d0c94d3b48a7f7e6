package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/config"
	"github.com/mrlokans/giftags/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func seedLink(t *testing.T, db *gorm.DB) entities.UserGifTag {
	t.Helper()
	user := entities.User{TgID: 12345}
	gif := entities.Gif{TgGifID: "abc"}
	tag := entities.Tag{Tag: "funny"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&gif).Error)
	require.NoError(t, db.Create(&tag).Error)

	link := entities.UserGifTag{UserID: user.ID, GifID: gif.ID, TagID: tag.ID}
	require.NoError(t, db.Create(&link).Error)
	return link
}

func TestNewDatabase_CreatesTables(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"users", "gifs", "tags", "user_gif_tags"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.Database{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping(context.Background()))
}

func TestDatabase_Transaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := db.Transaction(ctx, func(tx *gorm.DB) error {
			return tx.Create(&entities.User{TgID: 1}).Error
		})
		require.NoError(t, err)

		var count int64
		db.DB.Model(&entities.User{}).Where("tg_id = ?", 1).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := db.Transaction(ctx, func(tx *gorm.DB) error {
			require.NoError(t, tx.Create(&entities.User{TgID: 2}).Error)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int64
		db.DB.Model(&entities.User{}).Where("tg_id = ?", 2).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = db.Transaction(ctx, func(tx *gorm.DB) error {
				tx.Create(&entities.User{TgID: 3})
				panic("boom")
			})
		})

		var count int64
		db.DB.Model(&entities.User{}).Where("tg_id = ?", 3).Count(&count)
		assert.Zero(t, count)
	})
}

func TestDatabase_ForeignKeysCascade(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	link := seedLink(t, db.DB)

	require.NoError(t, db.DB.Delete(&entities.User{}, link.UserID).Error)

	var count int64
	db.DB.Model(&entities.UserGifTag{}).Count(&count)
	assert.Zero(t, count)
}

func TestDatabase_DeleteOrphanTags(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	link := seedLink(t, db.DB)
	require.NoError(t, db.DB.Create(&entities.Tag{Tag: "unused"}).Error)
	require.NoError(t, db.DB.Create(&entities.Tag{Tag: "also-unused"}).Error)

	deleted, err := db.DeleteOrphanTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []entities.Tag
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, link.TagID, remaining[0].ID)

	deleted, err = db.DeleteOrphanTags(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
