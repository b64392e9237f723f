package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pressio/mediahub/biz/dal/model"

	"gorm.io/gorm"
)

// FolderDAO handles CRUD operations for folders.
type FolderDAO struct{}

func NewFolderDAO() *FolderDAO { return &FolderDAO{} }

func (dao *FolderDAO) Create(ctx context.Context, db *gorm.DB, folder *model.Folder) error {
	if folder == nil {
		return nil
	}
	if folder.FolderID == "" {
		folder.FolderID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(folder).Error
}

func (dao *FolderDAO) GetByFolderID(ctx context.Context, db *gorm.DB, folderID string) (*model.Folder, error) {
	var folder model.Folder
	if err := db.WithContext(ctx).Where("folder_id = ?", folderID).First(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// SlugExists checks for a slug collision under the same parent.
func (dao *FolderDAO) SlugExists(ctx context.Context, db *gorm.DB, parentID, slug string) (bool, error) {
	var folder model.Folder
	err := db.WithContext(ctx).
		Where("parent_id = ? AND slug = ?", parentID, slug).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all folders, parents before children, then by name.
func (dao *FolderDAO) List(ctx context.Context, db *gorm.DB) ([]model.Folder, error) {
	var folders []model.Folder
	if err := db.WithContext(ctx).
		Order("parent_id ASC, name ASC").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (dao *FolderDAO) DeleteByFolderID(ctx context.Context, db *gorm.DB, folderID string) error {
	return db.WithContext(ctx).Where("folder_id = ?", folderID).Delete(&model.Folder{}).Error
}

// Recount refreshes the denormalized file count from the asset table.
func (dao *FolderDAO) Recount(ctx context.Context, db *gorm.DB, folderID string) error {
	if folderID == "" {
		return nil
	}
	return db.WithContext(ctx).
		Model(&model.Folder{}).
		Where("folder_id = ?", folderID).
		Update("file_count", db.Model(&model.Asset{}).
			Select("COUNT(*)").
			Where("folder_id = ?", folderID),
		).Error
}
