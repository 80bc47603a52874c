package models

import "time"

// Membership links a member to the team identified by its owner.
// A (team owner, member) pair appears at most once.
type Membership struct {
	ID          uint   `gorm:"primarykey"`
	TeamOwnerID string `gorm:"uniqueIndex:idx_team_member;not null"`
	MemberID    string `gorm:"uniqueIndex:idx_team_member;not null"`
	Role        string
	InvitedBy   string
	JoinedAt    time.Time
}
