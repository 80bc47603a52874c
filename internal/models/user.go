package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID             string `gorm:"primarykey"`
	Email          string `gorm:"uniqueIndex"`
	HashedPassword string
	GoogleID       string
	DisplayName    string
	CompanyName    string
	TeamOwnerID    string `gorm:"index"` // primary team, mirrors the latest accepted membership
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) CheckPassword(password string) bool {
	if u.HashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}

// Name is the label shown to other users.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
