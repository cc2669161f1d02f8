package models

import "gorm.io/gorm"

// User is the application identity record. The password is stored as a
// bcrypt hash and never serialised.
type User struct {
	gorm.Model
	UserName       string `gorm:"uniqueIndex;size:100;not null" json:"user_name"`
	Email          string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName       string `gorm:"size:255"                      json:"full_name"`
	PasswordHash   string `gorm:"size:255;not null"             json:"-"`
	EmailConfirmed bool   `gorm:"default:false"                 json:"email_confirmed"`
	Role           string `gorm:"size:50;default:user"          json:"role"`

	// Cart is created once at registration and lives for the account's lifetime.
	Cart *Cart `gorm:"foreignKey:UserID" json:"-"`
}
