package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/pkg/delivery"
	"github.com/pressio/mediahub/pkg/storage/local"
	"github.com/pressio/mediahub/pkg/thumbnail"
	"github.com/pressio/mediahub/pkg/validator"
	"gorm.io/gorm"

	pkgstorage "github.com/pressio/mediahub/pkg/storage"
)

const (
	variantCacheSize = 2048
	variantCacheTTL  = 10 * time.Minute

	defaultUploadTimeout = 30 * time.Second
)

// Options configures a Service.
type Options struct {
	DB       *gorm.DB
	Store    pkgstorage.Store
	Fallback *local.Store
	Deriver  *delivery.Deriver
	Uploads  *validator.UploadConfig
	Thumbs   *thumbnail.Extractor

	// UploadTimeout bounds a single backing-store write; large video
	// payloads need tens of seconds.
	UploadTimeout time.Duration

	// Optimize makes the editor bridge prefer the WebP alternate for images.
	Optimize bool

	// EvictDelay overrides how long terminal upload tasks stay visible.
	EvictDelay time.Duration
}

// Service orchestrates asset ingestion, catalog queries and delivery URL
// derivation.
type Service struct {
	logic         *Logic
	store         pkgstorage.Store
	fallback      *local.Store
	deriver       *delivery.Deriver
	uploads       *validator.UploadConfig
	thumbs        *thumbnail.Extractor
	tasks         *taskTracker
	variantCache  *expirable.LRU[string, delivery.Variants]
	uploadTimeout time.Duration
	optimize      bool
}

func NewService(opts Options) *Service {
	deriver := opts.Deriver
	if deriver == nil {
		deriver = delivery.Disabled()
	}
	uploads := opts.Uploads
	if uploads == nil {
		uploads = validator.DefaultUploadConfig()
	}
	timeout := opts.UploadTimeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}

	return &Service{
		logic:         NewLogic(opts.DB),
		store:         opts.Store,
		fallback:      opts.Fallback,
		deriver:       deriver,
		uploads:       uploads,
		thumbs:        opts.Thumbs,
		tasks:         newTaskTracker(opts.EvictDelay),
		variantCache:  expirable.NewLRU[string, delivery.Variants](variantCacheSize, nil, variantCacheTTL),
		uploadTimeout: timeout,
		optimize:      opts.Optimize,
	}
}

// AssetView is an asset record enriched with derived delivery URLs. The
// derived fields are computed on read and only present for images.
type AssetView struct {
	model.Asset
	ResponsiveURLs *delivery.Variants `json:"responsive_urls,omitempty"`
	WebPURL        string             `json:"webp_url,omitempty"`
}

// decorateAsset attaches derived delivery URLs. Variant sets are memoized in
// an expiring LRU keyed by origin URL, since derivation itself never caches.
func (s *Service) decorateAsset(asset *model.Asset) AssetView {
	view := AssetView{Asset: *asset}
	if asset.Kind != string(validator.KindImage) || asset.OriginURL == "" {
		return view
	}

	if cached, ok := s.variantCache.Get(asset.OriginURL); ok {
		view.ResponsiveURLs = &cached
	} else {
		variants := s.deriver.DeriveVariants(asset.OriginURL)
		s.variantCache.Add(asset.OriginURL, variants)
		view.ResponsiveURLs = &variants
	}
	view.WebPURL = s.deriver.DeriveFormatAlternate(asset.OriginURL)
	return view
}

func (s *Service) decorateAssetList(assets []model.Asset) []AssetView {
	views := make([]AssetView, 0, len(assets))
	for i := range assets {
		views = append(views, s.decorateAsset(&assets[i]))
	}
	return views
}

// ActiveUploads returns a snapshot of the in-flight upload tasks.
func (s *Service) ActiveUploads() []UploadTask {
	return s.tasks.snapshot()
}
