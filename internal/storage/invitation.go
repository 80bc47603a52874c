package storage

import (
	"context"
	"time"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/models"
)

// CodeField is a column an invitation can be looked up by.
type CodeField string

const (
	FieldLinkCode        CodeField = "link_code"
	FieldInvitationToken CodeField = "invitation_token"
)

func CreateInvitation(ctx context.Context, db *gormw.DB, invitation *models.Invitation) error {
	return db.WithContext(ctx).Create(invitation).Error
}

// GetValidInvitation finds a pending, unexpired invitation by code in a single query.
func GetValidInvitation(ctx context.Context, db *gormw.DB, field CodeField, code string, now time.Time) (*models.Invitation, error) {
	res := &models.Invitation{}
	err := db.WithContext(ctx).
		Where(string(field)+" = ? AND status = ? AND expires_at > ?", code, models.InvitationStatusPending, now).
		First(res).Error
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetInvitationByCode finds an invitation by code whatever its status.
func GetInvitationByCode(ctx context.Context, db *gormw.DB, field CodeField, code string) (*models.Invitation, error) {
	res := &models.Invitation{}
	if err := db.WithContext(ctx).Where(string(field)+" = ?", code).First(res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// MarkInvitationAccepted flips a pending, unexpired invitation to accepted.
// It returns the number of rows changed, 0 means another request consumed it
// first or it expired in between.
func MarkInvitationAccepted(ctx context.Context, db *gormw.DB, id, userID string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ? AND expires_at > ?", id, models.InvitationStatusPending, now).
		Updates(map[string]any{
			"status":      models.InvitationStatusAccepted,
			"accepted_at": now,
			"accepted_by": userID,
		})
	return res.RowsAffected, res.Error
}

func ListInvitationsByInviter(ctx context.Context, db *gormw.DB, inviterID string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := db.WithContext(ctx).
		Where("invited_by = ?", inviterID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

type InvitationCounts struct {
	Pending  int64
	Expired  int64
	Accepted int64
}

// CountInvitations counts invitations by lifecycle state. Expired counts
// pending invitations past their expiry, those are never deleted.
func CountInvitations(ctx context.Context, db *gormw.DB, now time.Time) (*InvitationCounts, error) {
	counts := &InvitationCounts{}

	if err := db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at > ?", models.InvitationStatusPending, now).
		Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at <= ?", models.InvitationStatusPending, now).
		Count(&counts.Expired).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ?", models.InvitationStatusAccepted).
		Count(&counts.Accepted).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
