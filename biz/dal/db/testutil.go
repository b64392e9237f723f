package db

import (
	"context"
	"testing"

	"github.com/pressio/mediahub/biz/dal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Asset{},
		&model.Folder{},
	); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestAsset inserts an asset with sensible defaults, applying any
// mutate funcs first.
func CreateTestAsset(t *testing.T, db *gorm.DB, name string, mutate ...func(*model.Asset)) *model.Asset {
	t.Helper()
	asset := &model.Asset{
		FileName:     name,
		OriginalName: name,
		Kind:         "image",
		ContentType:  "image/jpeg",
		SizeBytes:    1024,
		Path:         "test/" + name,
		OriginURL:    "/api/v1/media/file/test/" + name,
		Source:       model.SourceLive,
	}
	for _, fn := range mutate {
		fn(asset)
	}
	dao := NewAssetDAO()
	if err := dao.Create(context.Background(), db, asset); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestFolder inserts a folder with a slug derived trivially from name.
func CreateTestFolder(t *testing.T, db *gorm.DB, name, slug, parentID string) *model.Folder {
	t.Helper()
	folder := &model.Folder{
		Name:     name,
		Slug:     slug,
		ParentID: parentID,
	}
	dao := NewFolderDAO()
	if err := dao.Create(context.Background(), db, folder); err != nil {
		t.Fatalf("Failed to create test folder: %v", err)
	}
	return folder
}
