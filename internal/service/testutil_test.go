package service

import (
	"testing"

	"Hingaa_Server/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 内存库共享同一个连接，否则每个连接各是一个空库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.ActivityMember{},
		&model.JoinRequest{},
		&model.UserBlock{},
		&model.Message{},
		&model.RequestOutbox{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint64, username string) {
	t.Helper()
	require.NoError(t, db.Create(&model.User{
		ID:       id,
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
	}).Error)
}

func seedActivity(t *testing.T, db *gorm.DB, id, hostID uint64, limit int) {
	t.Helper()
	require.NoError(t, db.Create(&model.Activity{
		ID:               id,
		HostID:           hostID,
		Title:            "Saturday hike",
		Description:      "easy trail",
		ParticipantLimit: limit,
		LocationName:     "Table Mountain",
		Status:           model.ActivityStatusOpen,
	}).Error)
}
