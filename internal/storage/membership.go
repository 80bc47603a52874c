package storage

import (
	"context"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/models"
)

func MembershipExists(ctx context.Context, db *gormw.DB, teamOwnerID, memberID string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("team_owner_id = ? AND member_id = ?", teamOwnerID, memberID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func CreateMembership(ctx context.Context, db *gormw.DB, membership *models.Membership) error {
	return db.WithContext(ctx).Create(membership).Error
}

func ListMembershipsByOwner(ctx context.Context, db *gormw.DB, teamOwnerID string) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := db.WithContext(ctx).
		Where("team_owner_id = ?", teamOwnerID).
		Order("joined_at asc").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
