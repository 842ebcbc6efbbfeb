package models

// User represents a registered account. Passwords are stored bcrypt-hashed.
type User struct {
	UserID   uint   `gorm:"primaryKey" json:"user_id"`
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	TradeEntries []TradeEntry `gorm:"foreignKey:UserID" json:"-"`
}
