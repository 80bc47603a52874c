package storage

import (
	"context"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/models"
)

func GetUserByEmail(ctx context.Context, db *gormw.DB, email string) (*models.User, error) {
	user := &models.User{}
	if err := db.WithContext(ctx).Where("email = ?", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(ctx context.Context, db *gormw.DB, id string) (*models.User, error) {
	user := &models.User{}
	if err := db.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(ctx context.Context, db *gormw.DB, user *models.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func SaveUser(ctx context.Context, db *gormw.DB, user *models.User) error {
	return db.WithContext(ctx).Save(user).Error
}

// UpdateUserTeamOwner sets the user's primary team. It returns the number of
// rows changed so callers can notice a missing profile.
func UpdateUserTeamOwner(ctx context.Context, db *gormw.DB, userID, teamOwnerID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("team_owner_id", teamOwnerID)
	return res.RowsAffected, res.Error
}
