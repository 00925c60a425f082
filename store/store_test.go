package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"matchday/social-api/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Otp{}, model.Post{}))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, email string) {
	t.Helper()

	require.NoError(t, db.Create(&model.User{
		ID:           id,
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleUser,
	}).Error)
}
