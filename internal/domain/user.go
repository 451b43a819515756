package domain

import "time"

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
