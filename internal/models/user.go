package models

// User is an account that can log in and own items.
//
// Password holds either a bcrypt hash or, for legacy rows, the plaintext
// password. It is never serialized.
type User struct {
	UserID   int64  `gorm:"column:user_id;primaryKey;autoIncrement" json:"userId"`
	Username string `gorm:"uniqueIndex;not null" json:"username" validate:"required"`
	Password string `gorm:"not null" json:"-"`
}
