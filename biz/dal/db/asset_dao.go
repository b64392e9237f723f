package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pressio/mediahub/biz/dal/model"

	"gorm.io/gorm"
)

// Sort keys accepted by AssetQuery.
const (
	SortByUploadedAt = "uploadedAt"
	SortByName       = "name"
	SortBySize       = "size"
)

// sortColumns maps query sort keys onto table columns.
var sortColumns = map[string]string{
	SortByUploadedAt: "created_at",
	SortByName:       "original_name",
	SortBySize:       "size_bytes",
}

// AssetQuery captures catalog list filters, sorting and pagination.
type AssetQuery struct {
	FolderID  string // exact match; empty means no folder filter
	Kind      string // image|video|document, empty or "all" means no filter
	Search    string // case-insensitive substring over original name, alt, caption
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// Pagination describes one page of a list result.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// AssetDAO handles CRUD operations for assets.
type AssetDAO struct{}

func NewAssetDAO() *AssetDAO { return &AssetDAO{} }

func (dao *AssetDAO) Create(ctx context.Context, db *gorm.DB, asset *model.Asset) error {
	if asset == nil {
		return nil
	}
	if asset.FileID == "" {
		asset.FileID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(asset).Error
}

// DeleteByFileID hard-deletes the asset row. Deleting a missing id is a
// no-op, which keeps Remove idempotent for callers.
func (dao *AssetDAO) DeleteByFileID(ctx context.Context, db *gorm.DB, fileID string) error {
	return db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&model.Asset{}).Error
}

func (dao *AssetDAO) GetByFileID(ctx context.Context, db *gorm.DB, fileID string) (*model.Asset, error) {
	var asset model.Asset
	if err := db.WithContext(ctx).Where("file_id = ?", fileID).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateMeta sets the alt and caption texts.
func (dao *AssetDAO) UpdateMeta(ctx context.Context, db *gorm.DB, fileID, alt, caption string) error {
	result := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("file_id = ?", fileID).
		Updates(map[string]any{"alt": alt, "caption": caption})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MoveToFolder reassigns the asset's folder. An empty folderID moves it to
// the root.
func (dao *AssetDAO) MoveToFolder(ctx context.Context, db *gorm.DB, fileID, folderID string) error {
	result := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("file_id = ?", fileID).
		Update("folder_id", folderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAfterReconcile flips a fallback asset to live with its new storage
// location.
func (dao *AssetDAO) UpdateAfterReconcile(ctx context.Context, db *gorm.DB, fileID, originURL string) error {
	return db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("file_id = ?", fileID).
		Updates(map[string]any{"source": model.SourceLive, "origin_url": originURL}).Error
}

// ListBySource returns assets with the given source tag, oldest first.
func (dao *AssetDAO) ListBySource(ctx context.Context, db *gorm.DB, source string, limit int) ([]model.Asset, error) {
	var assets []model.Asset
	q := db.WithContext(ctx).Where("source = ?", source).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// CountByFolder returns the number of assets in the folder.
func (dao *AssetDAO) CountByFolder(ctx context.Context, db *gorm.DB, folderID string) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("folder_id = ?", folderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns one page of assets matching the query, plus pagination info.
func (dao *AssetDAO) List(ctx context.Context, db *gorm.DB, query AssetQuery) ([]model.Asset, Pagination, error) {
	q := db.WithContext(ctx).Model(&model.Asset{})

	if query.FolderID != "" {
		q = q.Where("folder_id = ?", query.FolderID)
	}
	if kind := strings.TrimSpace(query.Kind); kind != "" && kind != "all" {
		q = q.Where("kind = ?", kind)
	}
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			"LOWER(original_name) LIKE ? OR LOWER(alt) LIKE ? OR LOWER(caption) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		direction = "ASC"
	}
	q = q.Order(column + " " + direction)

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 20
	}
	q = q.Offset((page - 1) * perPage).Limit(perPage)

	var assets []model.Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return assets, Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
