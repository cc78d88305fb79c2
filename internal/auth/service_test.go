package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/winterhq/socialboard/internal/models"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewService(db, []byte("test-secret"))
}

func TestCreateAdminAndLogin(t *testing.T) {
	svc := setupService(t)

	user, err := svc.CreateAdmin("admin@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "hunter22", *user.PasswordHash)

	resp, err := svc.Login(LoginRequest{Email: "Admin@Example.COM", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := setupService(t)
	_, err := svc.CreateAdmin("admin@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := setupService(t)
	_, err := svc.Login(LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateAdminResetsExistingPassword(t *testing.T) {
	svc := setupService(t)

	first, err := svc.CreateAdmin("admin@example.com", "oldpass")
	require.NoError(t, err)
	second, err := svc.CreateAdmin("admin@example.com", "newpass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert must not duplicate the account")

	_, err = svc.Login(LoginRequest{Email: "admin@example.com", Password: "oldpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(LoginRequest{Email: "admin@example.com", Password: "newpass"})
	assert.NoError(t, err)
}

func TestValidateToken(t *testing.T) {
	svc := setupService(t)
	_, err := svc.CreateAdmin("admin@example.com", "hunter22")
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	user, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.True(t, user.IsAdmin)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := setupService(t)
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := setupService(t)
	_, err := svc.CreateAdmin("admin@example.com", "hunter22")
	require.NoError(t, err)
	resp, err := svc.Login(LoginRequest{Email: "admin@example.com", Password: "hunter22"})
	require.NoError(t, err)

	other := NewService(svc.db, []byte("different-secret"))
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)
}
