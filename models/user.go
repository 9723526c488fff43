package models

import "time"

// UserType defines allowed account types in the system
type UserType string

const (
	TypeUser  UserType = "user"
	TypeAdmin UserType = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirebaseUID  string    `json:"firebase_uid" gorm:"uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"not null"`
	MobileNumber string    `json:"mobile_number" gorm:"uniqueIndex;not null"`
	Email        *string   `json:"email" gorm:"uniqueIndex"`
	Type         UserType  `json:"type" gorm:"not null;default:'user'"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProjection is the minimal user shape embedded in order responses.
type UserProjection struct {
	ID           uint   `json:"id"`
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	Image        string `json:"image"`
}

func (u *User) Project() UserProjection {
	return UserProjection{
		ID:           u.ID,
		FullName:     u.FullName,
		MobileNumber: u.MobileNumber,
		Image:        u.Image,
	}
}

func (u *User) IsAdmin() bool {
	return u.Type == TypeAdmin
}
