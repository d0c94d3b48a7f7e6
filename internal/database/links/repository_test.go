package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/records"
	"github.com/mrlokans/giftags/internal/entities"
)

type fixture struct {
	user entities.User
	gif  entities.Gif
	tags []entities.Tag
}

func seed(t *testing.T, db *gorm.DB, texts ...string) fixture {
	t.Helper()
	f := fixture{user: entities.User{TgID: 1}, gif: entities.Gif{TgGifID: "gif"}}
	require.NoError(t, db.Create(&f.user).Error)
	require.NoError(t, db.Create(&f.gif).Error)
	for _, text := range texts {
		tag := entities.Tag{Tag: text}
		require.NoError(t, db.Create(&tag).Error)
		f.tags = append(f.tags, tag)
	}
	return f
}

func TestRepository_CreateLink(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()
	f := seed(t, db, "funny")

	link, err := repo.CreateLink(ctx, f.user.ID, f.gif.ID, f.tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, link.UserID)
	assert.Equal(t, f.gif.ID, link.GifID)
	assert.Equal(t, f.tags[0].ID, link.TagID)

	// Linking twice is a no-op
	_, err = repo.CreateLink(ctx, f.user.ID, f.gif.ID, f.tags[0].ID)
	require.NoError(t, err)

	var count int64
	db.Model(&entities.UserGifTag{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_CreateLink_UnknownParent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	f := seed(t, db, "funny")

	_, err := NewRepository(db).CreateLink(context.Background(), f.user.ID, f.gif.ID+100, f.tags[0].ID)
	assert.Error(t, err)
}

func TestRepository_DeleteLink(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()
	f := seed(t, db, "a", "b")

	for _, tag := range f.tags {
		_, err := repo.CreateLink(ctx, f.user.ID, f.gif.ID, tag.ID)
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteLink(ctx, f.user.ID, f.gif.ID, f.tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.Find(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, f.tags[1].ID, remaining[0].TagID)
}

func TestRepository_DeleteGifLinks_Twice(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()
	f := seed(t, db, "a", "b")

	for _, tag := range f.tags {
		_, err := repo.CreateLink(ctx, f.user.ID, f.gif.ID, tag.ID)
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteGifLinks(ctx, f.user.ID, f.gif.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteGifLinks(ctx, f.user.ID, f.gif.ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRepository_DeleteByKeyNeedsSingleKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewRepository(db).DeleteMany(context.Background(), records.ByKey(uint(1)))
	assert.ErrorIs(t, err, records.ErrCompositeKey)
}
