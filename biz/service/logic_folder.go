package service

import (
	"context"
	"errors"

	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/pkg/util"
	"github.com/pressio/mediahub/pkg/validator"
	"gorm.io/gorm"
)

// --------------------- Folder Operations ---------------------

// CreateFolder derives the slug from the name and rejects a collision with
// an existing slug under the same parent.
func (l *Logic) CreateFolder(ctx context.Context, name, parentID, createdBy string) (*model.Folder, error) {
	clean, ok := validator.SanitizeFolderName(name)
	if !ok {
		return nil, ErrInvalidFolder
	}
	slug := util.Slugify(clean)
	if slug == "" {
		return nil, ErrInvalidFolder
	}

	if parentID != "" {
		if _, err := l.GetFolder(ctx, parentID); err != nil {
			return nil, err
		}
	}

	exists, err := l.folderDAO.SlugExists(ctx, l.db, parentID, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFolderExists
	}

	folder := &model.Folder{
		Name:      clean,
		Slug:      slug,
		ParentID:  parentID,
		CreatedBy: createdBy,
	}
	if err := l.folderDAO.Create(ctx, l.db, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (l *Logic) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	folder, err := l.folderDAO.GetByFolderID(ctx, l.db, folderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	return folder, err
}

func (l *Logic) ListFolders(ctx context.Context) ([]model.Folder, error) {
	return l.folderDAO.List(ctx, l.db)
}

// DeleteFolder rejects when the folder still contains assets.
func (l *Logic) DeleteFolder(ctx context.Context, folderID string) error {
	if _, err := l.GetFolder(ctx, folderID); err != nil {
		return err
	}
	count, err := l.assetDAO.CountByFolder(ctx, l.db, folderID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFolderNotEmpty
	}
	return l.folderDAO.DeleteByFolderID(ctx, l.db, folderID)
}
