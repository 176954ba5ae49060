package user

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "user_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	return NewService(db)
}

func seedUser(t *testing.T, svc *Service) *User {
	t.Helper()
	u := &User{Email: "miner@example.com", Password: "hash", Role: RoleUser, IsActive: true}
	require.NoError(t, svc.Store().CreateUser(u))
	return u
}

func TestUserExists(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc)

	exists, err := svc.UserExists(u.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.UserExists(999)
	require.NoError(t, err)
	assert.False(t, exists)

	t.Run("deactivated_user_does_not_exist", func(t *testing.T) {
		u.IsActive = false
		require.NoError(t, svc.Store().UpdateUser(u))

		exists, err := svc.UserExists(u.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGetProfile(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc)

	got, err := svc.GetProfile(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "miner@example.com", got.Email)

	_, err = svc.GetProfile(999)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeUserNotFound, appErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc)

	name := "Satoshi"
	got, err := svc.UpdateProfile(u.ID, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Satoshi", got.Name)
	// email + name filled, username + phone empty
	assert.Equal(t, 50, got.ProfileCompletion)

	username := "satoshi"
	phone := "+1-555-0100"
	got, err = svc.UpdateProfile(u.ID, UpdateProfileRequest{Username: &username, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, 100, got.ProfileCompletion)
	assert.Equal(t, "Satoshi", got.Name, "untouched fields survive")
}
