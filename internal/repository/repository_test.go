package repository_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mediaitor/internal/model"
)

// newTestDB opens a private in-memory database with foreign keys enforced and
// the production schema migrated. One connection keeps the database alive for
// the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalID string) *model.User {
	t.Helper()

	user := &model.User{Email: externalID + "@example.com", ExternalID: externalID}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", externalID, err)
	}
	return user
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.WithContext(context.Background()).Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
