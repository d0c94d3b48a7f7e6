package services

import "errors"

var (
	// ErrNotFound means the lookup matched nothing. It is an outcome, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidGifIDType is returned for a gif_id_type other than tg or db.
	ErrInvalidGifIDType = errors.New("gif id type must be tg or db")
	// ErrInvalidGifID is returned for a Telegram GIF id outside 1..255
	// characters or a db id that is not a positive integer.
	ErrInvalidGifID = errors.New("invalid gif id")
	// ErrInvalidTag is returned for tag text outside 1..100 characters.
	ErrInvalidTag = errors.New("invalid tag")
)
