package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/models"
)

var (
	testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
)

func setupTestDB(t *testing.T) *gormw.DB {
	t.Helper()
	db, err := gormw.Open(&gormw.Config{
		LogLevel: gormlog.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	return db
}

func addInvitation(t *testing.T, db *gormw.DB, id, token, linkCode string, expiresAt time.Time) *models.Invitation {
	t.Helper()
	inv := &models.Invitation{
		ID:              id,
		InvitedBy:       "owner",
		InvitationToken: token,
		LinkCode:        linkCode,
		Role:            "member",
		Status:          models.InvitationStatusPending,
		CreatedAt:       testNow.Add(-time.Hour),
		ExpiresAt:       expiresAt,
	}
	require.NoError(t, CreateInvitation(context.Background(), db, inv))
	return inv
}

func TestGetValidInvitation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	addInvitation(t, db, "valid", "tokvalid", "lnkvalid", testNow.Add(time.Hour))
	addInvitation(t, db, "expired", "tokexpir", "lnkexpir", testNow.Add(-time.Minute))
	accepted := addInvitation(t, db, "accepted", "tokaccep", "lnkaccep", testNow.Add(time.Hour))
	n, err := MarkInvitationAccepted(ctx, db, accepted.ID, "someone", testNow)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	tests := []struct {
		name   string
		field  CodeField
		code   string
		wantID string
	}{
		{name: "by link code", field: FieldLinkCode, code: "lnkvalid", wantID: "valid"},
		{name: "by token", field: FieldInvitationToken, code: "tokvalid", wantID: "valid"},
		{name: "token in link code column", field: FieldLinkCode, code: "tokvalid"},
		{name: "expired", field: FieldLinkCode, code: "lnkexpir"},
		{name: "accepted", field: FieldLinkCode, code: "lnkaccep"},
		{name: "unknown", field: FieldLinkCode, code: "nope0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := GetValidInvitation(ctx, db, tt.field, tt.code, testNow)
			if tt.wantID == "" {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, inv.ID)
		})
	}
}

func TestMarkInvitationAccepted_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	inv := addInvitation(t, db, "inv", "tok00001", "lnk00001", testNow.Add(time.Hour))

	n, err := MarkInvitationAccepted(ctx, db, inv.ID, "u2", testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = MarkInvitationAccepted(ctx, db, inv.ID, "u3", testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := GetInvitationByCode(ctx, db, FieldLinkCode, "lnk00001")
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusAccepted, got.Status)
	assert.Equal(t, "u2", got.AcceptedBy)
	require.NotNil(t, got.AcceptedAt)
	assert.True(t, got.AcceptedAt.Equal(testNow))
}

func TestMarkInvitationAccepted_Expired(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	inv := addInvitation(t, db, "inv", "tok00001", "lnk00001", testNow.Add(-time.Second))

	n, err := MarkInvitationAccepted(ctx, db, inv.ID, "u2", testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCreateInvitation_DuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	addInvitation(t, db, "first", "tok00001", "lnk00001", testNow.Add(time.Hour))

	err := CreateInvitation(context.Background(), db, &models.Invitation{
		ID:              "second",
		InvitedBy:       "owner",
		InvitationToken: "tok00002",
		LinkCode:        "lnk00001",
		Role:            "member",
		Status:          models.InvitationStatusPending,
		ExpiresAt:       testNow.Add(time.Hour),
	})
	require.Error(t, err)
	assert.True(t, IsUniqueConstraintError(err))
}

func TestMembership(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	exists, err := MembershipExists(ctx, db, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, CreateMembership(ctx, db, &models.Membership{
		TeamOwnerID: "u1",
		MemberID:    "u2",
		Role:        "admin",
		InvitedBy:   "u1",
		JoinedAt:    testNow,
	}))

	exists, err = MembershipExists(ctx, db, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, exists)

	err = CreateMembership(ctx, db, &models.Membership{
		TeamOwnerID: "u1",
		MemberID:    "u2",
		Role:        "member",
		JoinedAt:    testNow,
	})
	require.Error(t, err)
	assert.True(t, IsUniqueConstraintError(err))

	members, err := ListMembershipsByOwner(ctx, db, "u1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "admin", members[0].Role)
}

func TestUpdateUserTeamOwner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	require.NoError(t, CreateUser(ctx, db, &models.User{ID: "u2", Email: "u2@example.com"}))

	n, err := UpdateUserTeamOwner(ctx, db, "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	user, err := GetUserByID(ctx, db, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.TeamOwnerID)

	n, err = UpdateUserTeamOwner(ctx, db, "missing", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCountInvitations(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	addInvitation(t, db, "a", "tok0000a", "lnk0000a", testNow.Add(time.Hour))
	addInvitation(t, db, "b", "tok0000b", "lnk0000b", testNow.Add(time.Hour))
	addInvitation(t, db, "c", "tok0000c", "lnk0000c", testNow.Add(-time.Hour))
	_, err := MarkInvitationAccepted(ctx, db, "b", "u2", testNow)
	require.NoError(t, err)

	counts, err := CountInvitations(ctx, db, testNow)
	require.NoError(t, err)
	assert.Equal(t, &InvitationCounts{Pending: 1, Expired: 1, Accepted: 1}, counts)
}

func TestRegisterInvitationStatsReporter(t *testing.T) {
	db := setupTestDB(t)

	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	RegisterInvitationStatsReporter(scheduler, db)
	assert.Len(t, scheduler.Jobs(), 1)

	// the job body only logs, a run against an empty DB must not fail
	reportInvitationStats(context.Background(), db, testNow)
}

func TestListInvitationsByInviter(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	addInvitation(t, db, "older", "tok0000a", "lnk0000a", testNow.Add(time.Hour))
	newer := &models.Invitation{
		ID:              "newer",
		InvitedBy:       "owner",
		InvitationToken: "tok0000b",
		LinkCode:        "lnk0000b",
		Role:            "admin",
		Status:          models.InvitationStatusPending,
		CreatedAt:       testNow,
		ExpiresAt:       testNow.Add(time.Hour),
	}
	require.NoError(t, CreateInvitation(ctx, db, newer))

	invitations, err := ListInvitationsByInviter(ctx, db, "owner")
	require.NoError(t, err)
	require.Len(t, invitations, 2)
	assert.Equal(t, "newer", invitations[0].ID)
	assert.Equal(t, "older", invitations[1].ID)

	invitations, err = ListInvitationsByInviter(ctx, db, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, invitations)
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: "23503", Message: "foreign key"}, want: false},
		{name: "sqlite", err: errors.New("constraint failed: UNIQUE constraint failed: invitations.link_code (2067)"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueConstraintError(tt.err))
		})
	}
}

func TestAuthStateStorage(t *testing.T) {
	s := NewAuthStateStorage()

	_, ok := s.Get("state")
	assert.False(t, ok)

	s.Set("state", &AuthState{InvitationCode: "lnk00001", RedirectURI: "/dashboard"})
	got, ok := s.Get("state")
	require.True(t, ok)
	assert.Equal(t, "lnk00001", got.InvitationCode)

	s.Delete("state")
	_, ok = s.Get("state")
	assert.False(t, ok)
}
