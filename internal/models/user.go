package models

import "time"

// User is an operator account of the dashboard
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"passwordHash,omitempty"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return TableUsers }

// Sanitized returns a copy safe to send to clients
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
