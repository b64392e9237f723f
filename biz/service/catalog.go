package service

import (
	"context"
	"errors"
	"io"

	"github.com/pressio/mediahub/biz/dal/db"
	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/pkg/markup"
	"github.com/pressio/mediahub/pkg/validator"
)

// CatalogPage is what the grid and list views render from.
type CatalogPage struct {
	Files      []AssetView    `json:"files"`
	Folders    []model.Folder `json:"folders"`
	Pagination db.Pagination  `json:"pagination"`
}

// List returns one catalog page with assets enriched by derived delivery
// URLs.
func (s *Service) List(ctx context.Context, query db.AssetQuery) (*CatalogPage, error) {
	assets, pagination, err := s.logic.ListAssets(ctx, query)
	if err != nil {
		return nil, err
	}
	folders, err := s.logic.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{
		Files:      s.decorateAssetList(assets),
		Folders:    folders,
		Pagination: pagination,
	}, nil
}

// CreateFolder creates a folder, rejecting slug collisions under the same
// parent.
func (s *Service) CreateFolder(ctx context.Context, name, parentID, createdBy string) (*model.Folder, error) {
	return s.logic.CreateFolder(ctx, name, parentID, createdBy)
}

// DeleteFolder removes an empty folder; a folder that still contains assets
// is rejected.
func (s *Service) DeleteFolder(ctx context.Context, folderID string) error {
	return s.logic.DeleteFolder(ctx, folderID)
}

// Remove deletes the asset record and its stored payload. Removing an
// already-removed id succeeds, so callers never special-case repeats.
func (s *Service) Remove(ctx context.Context, fileID string) error {
	asset, err := s.logic.GetAsset(ctx, fileID)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil
		}
		return err
	}

	if err := s.logic.DeleteAsset(ctx, asset); err != nil {
		return err
	}
	s.removeObject(ctx, asset.Source, asset.Path)
	s.variantCache.Remove(asset.OriginURL)
	return nil
}

// MoveAsset reassigns the asset to another folder; an empty folder id moves
// it to the root.
func (s *Service) MoveAsset(ctx context.Context, fileID, folderID string) error {
	asset, err := s.logic.GetAsset(ctx, fileID)
	if err != nil {
		return err
	}
	if folderID != "" {
		if _, err := s.logic.GetFolder(ctx, folderID); err != nil {
			return err
		}
	}
	return s.logic.MoveAsset(ctx, asset, folderID)
}

// GetAsset returns a single decorated asset.
func (s *Service) GetAsset(ctx context.Context, fileID string) (*AssetView, error) {
	asset, err := s.logic.GetAsset(ctx, fileID)
	if err != nil {
		return nil, err
	}
	view := s.decorateAsset(asset)
	return &view, nil
}

// UpdateAssetMeta edits the alt and caption texts.
func (s *Service) UpdateAssetMeta(ctx context.Context, fileID, alt, caption string) (*AssetView, error) {
	if err := s.logic.UpdateAssetMeta(ctx, fileID, alt, caption); err != nil {
		return nil, err
	}
	asset, err := s.logic.GetAsset(ctx, fileID)
	if err != nil {
		return nil, err
	}
	view := s.decorateAsset(asset)
	return &view, nil
}

// GetAssetFile resolves the asset and opens its payload from whichever store
// holds it.
func (s *Service) GetAssetFile(ctx context.Context, fileID string) (*model.Asset, io.ReadCloser, error) {
	asset, err := s.logic.GetAsset(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	if asset.Source == model.SourceLocalFallback {
		if s.fallback == nil {
			return nil, nil, errors.New("fallback store not configured")
		}
		reader, err := s.fallback.GetObject(ctx, asset.Path)
		return asset, reader, err
	}

	reader, err := s.store.GetObject(ctx, asset.Path)
	return asset, reader, err
}

// Markup renders the selected assets into HTML fragments in input order.
// Unknown ids are skipped rather than failing the whole selection.
func (s *Service) Markup(ctx context.Context, fileIDs []string) ([]string, error) {
	inputs := make([]markup.Asset, 0, len(fileIDs))
	for _, id := range fileIDs {
		asset, err := s.logic.GetAsset(ctx, id)
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				continue
			}
			return nil, err
		}
		view := s.decorateAsset(asset)

		webp := ""
		if s.optimize {
			webp = view.WebPURL
		}
		inputs = append(inputs, markup.Asset{
			Kind:         validator.Kind(asset.Kind),
			OriginURL:    asset.OriginURL,
			WebPURL:      webp,
			ThumbnailURL: asset.ThumbnailURL,
			OriginalName: asset.OriginalName,
			Alt:          asset.Alt,
			Caption:      asset.Caption,
		})
	}
	return markup.ToMarkup(inputs), nil
}
