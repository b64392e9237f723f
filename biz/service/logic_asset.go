package service

import (
	"context"
	"errors"

	"github.com/pressio/mediahub/biz/dal/db"
	"github.com/pressio/mediahub/biz/dal/model"
	"gorm.io/gorm"
)

// --------------------- Asset Operations ---------------------

// CreateAsset persists the record and refreshes the folder count in one
// transaction, so list readers see either neither or both.
func (l *Logic) CreateAsset(ctx context.Context, asset *model.Asset) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.assetDAO.Create(ctx, tx, asset); err != nil {
			return err
		}
		return l.folderDAO.Recount(ctx, tx, asset.FolderID)
	})
}

// DeleteAsset removes the record and refreshes the folder count. A missing
// id is a no-op so removal stays idempotent for callers.
func (l *Logic) DeleteAsset(ctx context.Context, asset *model.Asset) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.assetDAO.DeleteByFileID(ctx, tx, asset.FileID); err != nil {
			return err
		}
		return l.folderDAO.Recount(ctx, tx, asset.FolderID)
	})
}

func (l *Logic) GetAsset(ctx context.Context, fileID string) (*model.Asset, error) {
	asset, err := l.assetDAO.GetByFileID(ctx, l.db, fileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	return asset, err
}

func (l *Logic) ListAssets(ctx context.Context, query db.AssetQuery) ([]model.Asset, db.Pagination, error) {
	return l.assetDAO.List(ctx, l.db, query)
}

func (l *Logic) UpdateAssetMeta(ctx context.Context, fileID, alt, caption string) error {
	if err := l.assetDAO.UpdateMeta(ctx, l.db, fileID, alt, caption); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}

// MoveAsset reassigns the asset's folder and refreshes both folder counts.
func (l *Logic) MoveAsset(ctx context.Context, asset *model.Asset, folderID string) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.assetDAO.MoveToFolder(ctx, tx, asset.FileID, folderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		if err := l.folderDAO.Recount(ctx, tx, asset.FolderID); err != nil {
			return err
		}
		return l.folderDAO.Recount(ctx, tx, folderID)
	})
}

func (l *Logic) ListFallbackAssets(ctx context.Context, limit int) ([]model.Asset, error) {
	return l.assetDAO.ListBySource(ctx, l.db, model.SourceLocalFallback, limit)
}

func (l *Logic) MarkAssetReconciled(ctx context.Context, fileID, originURL string) error {
	return l.assetDAO.UpdateAfterReconcile(ctx, l.db, fileID, originURL)
}
