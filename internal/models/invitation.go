package models

import "time"

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
)

type Invitation struct {
	ID              string `gorm:"primarykey"`
	InvitedBy       string `gorm:"index;not null"`
	Email           string
	InvitationToken string `gorm:"uniqueIndex;not null"`
	LinkCode        string `gorm:"uniqueIndex;not null"`
	Role            string `gorm:"not null"`
	Status          string `gorm:"index;not null"`
	CreatedAt       time.Time
	ExpiresAt       time.Time `gorm:"index"`
	AcceptedAt      *time.Time
	AcceptedBy      string
}

// IsValid reports whether the invitation can still be accepted at now.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.Status == InvitationStatusPending && i.ExpiresAt.After(now)
}
