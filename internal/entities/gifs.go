package entities

// Column limits, in characters.
const (
	MaxTgGifIDLength = 255
	MaxTagLength     = 100
)

// User is a bot user, identified externally by their Telegram id.
type User struct {
	ID   uint  `gorm:"column:id;primaryKey" json:"id"`
	TgID int64 `gorm:"column:tg_id;uniqueIndex;not null" json:"tg_id"`
}

// Gif is a GIF known to the bot, identified externally by its Telegram file id.
type Gif struct {
	ID      uint   `gorm:"column:id;primaryKey" json:"id"`
	TgGifID string `gorm:"column:tg_gif_id;uniqueIndex;size:255;not null" json:"tg_gif_id"`
}

// Tag is a global piece of text. Two users tagging with the same text share the row.
type Tag struct {
	ID  uint   `gorm:"column:id;primaryKey" json:"id"`
	Tag string `gorm:"column:tag;uniqueIndex;size:100;not null" json:"tag"`
}

// UserGifTag records that a tag applies to a GIF for a user.
// The row has no attributes of its own, its existence is the fact.
type UserGifTag struct {
	UserID uint `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	GifID  uint `gorm:"column:gif_id;primaryKey;autoIncrement:false" json:"gif_id"`
	TagID  uint `gorm:"column:tag_id;primaryKey;autoIncrement:false" json:"tag_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Gif  Gif  `gorm:"foreignKey:GifID;constraint:OnDelete:CASCADE" json:"-"`
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Gif) TableName() string {
	return "gifs"
}

func (Tag) TableName() string {
	return "tags"
}

func (UserGifTag) TableName() string {
	return "user_gif_tags"
}
