package model

import (
	"time"
)

// Asset source values. Fallback assets were served locally because the
// backing store was unreachable; the reconciler later promotes them to live.
const (
	SourceLive          = "live"
	SourceLocalFallback = "local-fallback"
)

// Asset stores metadata for one uploaded file. Delivery variants are never
// stored; they are derived on read by the service layer.
type Asset struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	CreatedAt    time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"-"`
	FileID       string    `gorm:"column:file_id;uniqueIndex:idx_asset_file" json:"id"`
	FileName     string    `gorm:"column:file_name" json:"filename"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	Kind         string    `gorm:"column:kind;index:idx_asset_kind" json:"kind"`
	ContentType  string    `gorm:"column:content_type" json:"mime_type"`
	SizeBytes    int64     `gorm:"column:size_bytes" json:"size_bytes"`
	Path         string    `gorm:"column:path;type:text" json:"-"`
	OriginURL    string    `gorm:"column:origin_url;type:text" json:"origin_url"`
	ThumbnailURL string    `gorm:"column:thumbnail_url;type:text" json:"thumbnail_url,omitempty"`
	FolderID     string    `gorm:"column:folder_id;index:idx_asset_folder" json:"folder_id,omitempty"`
	UploadedBy   string    `gorm:"column:uploaded_by" json:"uploaded_by,omitempty"`
	Alt          string    `gorm:"column:alt;type:varchar(512)" json:"alt,omitempty"`
	Caption      string    `gorm:"column:caption;type:varchar(1024)" json:"caption,omitempty"`
	Source       string    `gorm:"column:source;index:idx_asset_source" json:"source"`

	// Class-specific metadata: width/height/format for images,
	// width/height/duration/audio flag for video.
	Width           int     `gorm:"column:width" json:"width,omitempty"`
	Height          int     `gorm:"column:height" json:"height,omitempty"`
	Format          string  `gorm:"column:format" json:"format,omitempty"`
	DurationSeconds float64 `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	HasAudio        bool    `gorm:"column:has_audio" json:"has_audio,omitempty"`
}

// TableName overrides gorm to use the asset table.
func (Asset) TableName() string {
	return "asset"
}
