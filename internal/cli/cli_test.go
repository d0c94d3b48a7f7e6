package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/giftags/internal/database"
	"github.com/mrlokans/giftags/internal/entities"
	"github.com/mrlokans/giftags/internal/services"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gifs.db")
	var out bytes.Buffer

	cmd := NewMigrateCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "up to date")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, db.DB.Migrator().HasTable("user_gif_tags"))
}

func TestSeedCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gifs.db")
	file := writeSeedFile(t, `[
		{"tg_user_id": 12345, "tg_gif_id": "abc", "tags": ["funny", "cat"]},
		{"tg_user_id": 12345, "tg_gif_id": "def", "tags": ["dog"]}
	]`)
	var out bytes.Buffer

	cmd := NewSeedCommand()
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-file", file}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded 2 entries")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	tgID := int64(12345)
	tags, err := services.NewGifTagService(db).GetAllUserTags(context.Background(), services.UserRef{TgID: &tgID})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "funny"}, tags)
}

func TestSeedCommand_Errors(t *testing.T) {
	t.Run("missing file flag", func(t *testing.T) {
		assert.Error(t, NewSeedCommand().ParseFlags([]string{}))
	})

	t.Run("invalid json", func(t *testing.T) {
		cmd := NewSeedCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", filepath.Join(t.TempDir(), "gifs.db"), "-file", writeSeedFile(t, "{")}))
		assert.Error(t, cmd.Run())
	})

	t.Run("entry without gif id", func(t *testing.T) {
		cmd := NewSeedCommand()
		cmd.Out = &bytes.Buffer{}
		file := writeSeedFile(t, `[{"tg_user_id": 1, "tags": ["a"]}]`)
		require.NoError(t, cmd.ParseFlags([]string{"-db", filepath.Join(t.TempDir(), "gifs.db"), "-file", file}))
		assert.ErrorContains(t, cmd.Run(), "tg_gif_id is required")
	})

	t.Run("tag longer than the column", func(t *testing.T) {
		cmd := NewSeedCommand()
		cmd.Out = &bytes.Buffer{}
		file := writeSeedFile(t, `[{"tg_user_id": 1, "tg_gif_id": "abc", "tags": ["`+strings.Repeat("t", 101)+`"]}]`)
		require.NoError(t, cmd.ParseFlags([]string{"-db", filepath.Join(t.TempDir(), "gifs.db"), "-file", file}))
		assert.ErrorIs(t, cmd.Run(), services.ErrInvalidTag)
	})
}

func TestCleanupTagsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gifs.db")

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	svc := services.NewGifTagService(db)
	ctx := context.Background()
	require.NoError(t, svc.ReconcileGifTags(ctx, 1, "abc", []string{"a", "b", "c"}))
	require.NoError(t, svc.ReconcileGifTags(ctx, 1, "abc", []string{"c"}))
	db.Close()

	t.Run("dry run only counts", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewCleanupTagsCommand()
		cmd.Out = &out
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-dry-run"}))
		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "2 orphan tags would be deleted")
	})

	t.Run("deletes orphans", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewCleanupTagsCommand()
		cmd.Out = &out
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Deleted 2 orphan tags")
	})

	db, err = database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	var remaining []entities.Tag
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "c", remaining[0].Tag)
}
