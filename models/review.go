package models

import "time"

// Review holds one rating per (product, user) pair. Submitting again
// updates the existing row instead of adding a second one.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
