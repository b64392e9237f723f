package model

import (
	"time"
)

// Folder is a named grouping container for assets. ParentID is empty for
// root-level folders; the model permits one level of nesting.
type Folder struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	FolderID  string    `gorm:"column:folder_id;uniqueIndex:idx_folder_id" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Slug      string    `gorm:"column:slug;uniqueIndex:idx_folder_slug,priority:2" json:"slug"`
	ParentID  string    `gorm:"column:parent_id;uniqueIndex:idx_folder_slug,priority:1" json:"parent_id,omitempty"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`

	// FileCount is denormalized and recomputed on catalog mutation.
	FileCount int64 `gorm:"column:file_count" json:"file_count"`
}

// TableName overrides gorm to use the folder table.
func (Folder) TableName() string {
	return "folder"
}
