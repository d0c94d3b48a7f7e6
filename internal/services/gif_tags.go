package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/giftags/internal/database/gifs"
	"github.com/mrlokans/giftags/internal/database/links"
	"github.com/mrlokans/giftags/internal/database/tags"
	"github.com/mrlokans/giftags/internal/database/users"
	"github.com/mrlokans/giftags/internal/entities"
)

// GifIDType tells DeleteUserGifTags how to read the GIF identifier.
type GifIDType string

const (
	GifIDTypeTg GifIDType = "tg"
	GifIDTypeDB GifIDType = "db"
)

// ParseGifIDType parses a gif_id_type value. Empty means tg.
func ParseGifIDType(s string) (GifIDType, error) {
	switch GifIDType(s) {
	case "", GifIDTypeTg:
		return GifIDTypeTg, nil
	case GifIDTypeDB:
		return GifIDTypeDB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGifIDType, s)
	}
}

func validateTgGifID(tgGifID string) error {
	if n := utf8.RuneCountInString(tgGifID); n == 0 || n > entities.MaxTgGifIDLength {
		return fmt.Errorf("%w: telegram gif id must be 1..%d characters, got %d", ErrInvalidGifID, entities.MaxTgGifIDLength, n)
	}
	return nil
}

func validateTag(tag string) error {
	if n := utf8.RuneCountInString(tag); n == 0 || n > entities.MaxTagLength {
		return fmt.Errorf("%w: tag must be 1..%d characters, got %d", ErrInvalidTag, entities.MaxTagLength, n)
	}
	return nil
}

// GifTagService answers tag queries and keeps a GIF's tags in line with what the bot sends.
// Every call runs in its own transaction.
type GifTagService struct {
	db Transactor
}

// NewGifTagService creates a new GifTagService.
func NewGifTagService(db Transactor) *GifTagService {
	return &GifTagService{db: db}
}

// joinedRow is one user_gif_tags row joined with its user, GIF and tag.
type joinedRow struct {
	UserID  uint
	TgID    int64
	GifID   uint
	TgGifID string
	Tag     string
}

func joinQuery(ctx context.Context, tx *gorm.DB, ref UserRef, tgGifIDs []string) ([]joinedRow, error) {
	query := tx.WithContext(ctx).
		Table("user_gif_tags").
		Select("users.id AS user_id, users.tg_id AS tg_id, gifs.id AS gif_id, gifs.tg_gif_id AS tg_gif_id, tags.tag AS tag").
		Joins("JOIN users ON users.id = user_gif_tags.user_id").
		Joins("JOIN gifs ON gifs.id = user_gif_tags.gif_id").
		Joins("JOIN tags ON tags.id = user_gif_tags.tag_id")

	if ref.ID != nil {
		query = query.Where("users.id = ?", *ref.ID)
	} else {
		query = query.Where("users.tg_id = ?", *ref.TgID)
	}
	if len(tgGifIDs) > 0 {
		query = query.Where("gifs.tg_gif_id IN ?", tgGifIDs)
	}

	var rows []joinedRow
	if err := query.Order("user_gif_tags.gif_id, user_gif_tags.tag_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query user gifs: %w", err)
	}
	return rows, nil
}

// GetUserGifsWithTags returns the user's GIFs with their tags. Only GIFs
// carrying every tag in q.Tags are kept. It returns ErrNotFound when the user
// is unknown or has no tagged GIFs.
func (s *GifTagService) GetUserGifsWithTags(ctx context.Context, q GifQuery) (*UserGifs, error) {
	if q.IsZero() {
		return nil, ErrNotFound
	}

	var result *UserGifs
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = userGifs(ctx, tx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func userGifs(ctx context.Context, tx *gorm.DB, q GifQuery) (*UserGifs, error) {
	rows, err := joinQuery(ctx, tx, q.UserRef, q.TgGifIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	result := &UserGifs{ID: rows[0].UserID, TgID: rows[0].TgID, Gifs: []GifTags{}}
	index := make(map[uint]int)
	for _, row := range rows {
		i, ok := index[row.GifID]
		if !ok {
			i = len(result.Gifs)
			index[row.GifID] = i
			result.Gifs = append(result.Gifs, GifTags{ID: row.GifID, TgGifID: row.TgGifID})
		}
		result.Gifs[i].Tags = append(result.Gifs[i].Tags, row.Tag)
	}

	if len(q.Tags) > 0 {
		kept := result.Gifs[:0]
		for _, gif := range result.Gifs {
			if hasAllTags(gif.Tags, q.Tags) {
				kept = append(kept, gif)
			}
		}
		result.Gifs = kept
	}
	return result, nil
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[t] = struct{}{}
	}
	for _, t := range want {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// GetAllUserTags returns the distinct tags the user attached to any GIF, sorted.
func (s *GifTagService) GetAllUserTags(ctx context.Context, ref UserRef) ([]string, error) {
	if ref.IsZero() {
		return nil, ErrNotFound
	}

	var rows []joinedRow
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		rows, err = joinQuery(ctx, tx, ref, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, row := range rows {
		if _, ok := seen[row.Tag]; ok {
			continue
		}
		seen[row.Tag] = struct{}{}
		result = append(result, row.Tag)
	}
	sort.Strings(result)
	return result, nil
}

// ReconcileGifTags makes the user's tag set on a GIF equal to desired.
// It returns ErrInvalidGifID or ErrInvalidTag before touching storage when
// a value does not fit its column.
// Tags already attached and still desired are left alone. The user, the GIF
// and new tags are created on first use. Any failure rolls back everything.
func (s *GifTagService) ReconcileGifTags(ctx context.Context, tgUserID int64, tgGifID string, desired []string) error {
	if err := validateTgGifID(tgGifID); err != nil {
		return err
	}
	for _, t := range desired {
		if err := validateTag(t); err != nil {
			return err
		}
	}

	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		wanted := make(map[string]struct{}, len(desired))
		var ordered []string
		for _, t := range desired {
			if _, ok := wanted[t]; ok {
				continue
			}
			wanted[t] = struct{}{}
			ordered = append(ordered, t)
		}

		toAdd := make(map[string]struct{}, len(wanted))
		for t := range wanted {
			toAdd[t] = struct{}{}
		}

		current, err := userGifs(ctx, tx, GifQuery{
			UserRef:  UserRef{TgID: &tgUserID},
			TgGifIDs: []string{tgGifID},
		})
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return err
		default:
			if err := removeStaleTags(ctx, tx, current, wanted, toAdd); err != nil {
				return err
			}
		}

		user, err := users.NewRepository(tx).CreateUser(ctx, tgUserID)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		gif, err := gifs.NewRepository(tx).CreateGif(ctx, tgGifID)
		if err != nil {
			return fmt.Errorf("failed to create gif: %w", err)
		}

		tagsRepo := tags.NewRepository(tx)
		linksRepo := links.NewRepository(tx)
		added := 0
		for _, text := range ordered {
			if _, ok := toAdd[text]; !ok {
				continue
			}
			tag, err := tagsRepo.CreateTag(ctx, text)
			if err != nil {
				return fmt.Errorf("failed to create tag %q: %w", text, err)
			}
			if _, err := linksRepo.CreateLink(ctx, user.ID, gif.ID, tag.ID); err != nil {
				return fmt.Errorf("failed to link tag %q: %w", text, err)
			}
			added++
		}

		log.Debug().
			Int64("tg_user_id", tgUserID).
			Str("tg_gif_id", tgGifID).
			Int("added", added).
			Msg("Reconciled gif tags")
		return nil
	})
}

// removeStaleTags unlinks current tags that are not wanted and drops the
// ones already linked from toAdd.
func removeStaleTags(ctx context.Context, tx *gorm.DB, current *UserGifs, wanted, toAdd map[string]struct{}) error {
	gif := current.Gifs[0]

	var stale []string
	for _, t := range gif.Tags {
		if _, ok := wanted[t]; ok {
			delete(toAdd, t)
			continue
		}
		stale = append(stale, t)
	}
	if len(stale) == 0 {
		return nil
	}

	ids, err := tags.NewRepository(tx).GetTagIDs(ctx, stale)
	if err != nil {
		return fmt.Errorf("failed to resolve tags: %w", err)
	}
	linksRepo := links.NewRepository(tx)
	for _, t := range stale {
		if _, err := linksRepo.DeleteLink(ctx, current.ID, gif.ID, ids[t]); err != nil {
			return fmt.Errorf("failed to unlink tag %q: %w", t, err)
		}
	}
	return nil
}

// DeleteUserGifTags removes every tag the user attached to the GIF and
// returns how many associations went away. gifID is a Telegram file id or
// an internal id depending on idType. It returns ErrNotFound when the user
// or the Telegram GIF is unknown.
func (s *GifTagService) DeleteUserGifTags(ctx context.Context, tgUserID int64, gifID string, idType GifIDType) (int64, error) {
	var deleted int64
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var internalGifID uint
		switch idType {
		case GifIDTypeTg:
			if err := validateTgGifID(gifID); err != nil {
				return err
			}
			gif, err := gifs.NewRepository(tx).GetGifByTgID(ctx, gifID)
			if err != nil {
				return err
			}
			if gif == nil {
				return ErrNotFound
			}
			internalGifID = gif.ID
		case GifIDTypeDB:
			id, err := strconv.ParseUint(gifID, 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("%w: db gif id must be a positive integer, got %q", ErrInvalidGifID, gifID)
			}
			internalGifID = uint(id)
		default:
			return fmt.Errorf("%w: %q", ErrInvalidGifIDType, idType)
		}

		user, err := users.NewRepository(tx).GetUserByTgID(ctx, tgUserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}

		deleted, err = links.NewRepository(tx).DeleteGifLinks(ctx, user.ID, internalGifID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
