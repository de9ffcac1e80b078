// internal/domain/user/service_test.go
package user

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-test-secret-test-secret!",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	log := logrus.New()
	return NewService(db, cfg, log), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(&RegisterRequest{
		Username: "baker", Email: "Baker@Example.com", Password: "flour123",
		FirstName: "Bea",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)

	// Emails are stored lowercased.
	require.Equal(t, "baker@example.com", resp.User.Email)

	// Login by username.
	login, err := svc.Login(&LoginRequest{Username: "baker", Password: "flour123"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)

	// Login by email, case insensitive.
	login, err = svc.Login(&LoginRequest{Username: "Baker@Example.com", Password: "flour123"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(&RegisterRequest{Username: "baker", Email: "baker@example.com", Password: "flour123"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Username: "baker", Email: "other@example.com", Password: "flour123"})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = svc.Register(&RegisterRequest{Username: "other", Email: "baker@example.com", Password: "flour123"})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRegisterStripsAdminFlag(t *testing.T) {
	svc, db := newTestService(t)

	wantAdmin := true
	resp, err := svc.Register(&RegisterRequest{
		Username: "sneaky", Email: "sneaky@example.com", Password: "flour123",
		IsAdmin: &wantAdmin,
	})
	require.NoError(t, err)
	require.False(t, resp.User.IsAdmin)

	var stored User
	require.NoError(t, db.First(&stored, "id = ?", resp.User.ID).Error)
	require.False(t, stored.IsAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(&RegisterRequest{Username: "baker", Email: "baker@example.com", Password: "flour123"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Username: "baker", Password: "wrong"})
	require.Error(t, err)
	require.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "flour123"})
	require.Error(t, err)
	require.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(&RegisterRequest{Username: "baker", Email: "baker@example.com", Password: "flour123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Tokens.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(resp.Tokens.AccessToken)
	require.Error(t, err)
	require.Equal(t, apperror.KindAuthentication, apperror.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(&RegisterRequest{Username: "baker", Email: "baker@example.com", Password: "flour123"})
	require.NoError(t, err)

	phone := "555-0100"
	dob := "1990-04-01"
	updated, err := svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Phone: &phone, DateOfBirth: &dob})
	require.NoError(t, err)
	require.Equal(t, "555-0100", updated.Phone)

	bad := "April 1st"
	_, err = svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{DateOfBirth: &bad})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
