package models

import (
	"strings"
	"time"
)

// OrderStatus represents the states of an order's lifecycle
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus matches input case-insensitively against the three
// stored status values. Returns false for anything else.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToUpper(s)) {
	case StatusPending:
		return StatusPending, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

type Order struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UserID     uint        `json:"user_id" gorm:"not null"`
	User       *User       `json:"-" gorm:"foreignKey:UserID"`
	TotalPrice string      `json:"total_price" gorm:"not null"` // decimal kept as string
	Status     OrderStatus `json:"status" gorm:"not null;default:'PENDING'"`
	Location   string      `json:"location"`
	Items      []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	OrderID   uint     `json:"order_id" gorm:"not null"`
	ProductID uint     `json:"product_id" gorm:"not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Price     float64  `json:"price" gorm:"not null"` // snapshot price at time of order
}
