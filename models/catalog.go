package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Image string `json:"image"`
}

// ImageList is an ordered list of image URLs stored as a JSON-encoded text
// column. The primary image is always first. Encoding happens only here, at
// the persistence edge.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("imagelist: unsupported column type")
	}
}

// NormalizeImages builds the stored list: primary first, then the extras
// with duplicates of the primary removed.
func NormalizeImages(primary string, extras []string) ImageList {
	list := ImageList{}
	if primary != "" {
		list = append(list, primary)
	}
	for _, img := range extras {
		if img == "" || img == primary {
			continue
		}
		list = append(list, img)
	}
	return list
}

type Product struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Price           float64   `json:"price" gorm:"not null"`
	OriginalPrice   *float64  `json:"original_price"`
	DiscountPercent *float64  `json:"discount_percent"`
	Image           string    `json:"image"`
	Images          ImageList `json:"images" gorm:"type:text"`
	Rate            *float64  `json:"rate"` // derived from reviews, nil when unrated
	IsFeatured      bool      `json:"is_featured" gorm:"default:false"`
	CategoryID      uint      `json:"category_id" gorm:"not null"`
	Category        *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RestaurantID    *uint     `json:"restaurant_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
