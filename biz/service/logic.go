package service

import (
	"errors"

	"github.com/pressio/mediahub/biz/dal/db"
	"gorm.io/gorm"
)

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrFolderExists   = errors.New("a folder with the same name already exists here")
	ErrFolderNotEmpty = errors.New("folder still contains assets")
	ErrInvalidFolder  = errors.New("invalid folder name")
)

// Logic contains business rules on top of data persistence.
type Logic struct {
	db        *gorm.DB
	assetDAO  *db.AssetDAO
	folderDAO *db.FolderDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:        dbConn,
		assetDAO:  db.NewAssetDAO(),
		folderDAO: db.NewFolderDAO(),
	}
}
