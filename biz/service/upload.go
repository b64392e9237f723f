package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/pkg/util"
	"github.com/pressio/mediahub/pkg/validator"
)

// ErrUploadRejected wraps validation rejections so handlers can map them to
// a client error.
var ErrUploadRejected = errors.New("upload rejected")

// UploadInput carries one candidate file into the orchestrator.
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
	FolderID    string
	Alt         string
	Caption     string
	UploadedBy  string
}

// UploadResult reports the outcome of one file in a batch. Err is empty on
// success; a failed file never aborts its siblings.
type UploadResult struct {
	FileName string     `json:"filename"`
	Task     UploadTask `json:"task"`
	Asset    *AssetView `json:"asset,omitempty"`
	Err      string     `json:"error,omitempty"`
}

// Upload ingests a single file: defensive re-validation, a monotonic
// progress sequence through queued, uploading, processing and exactly one
// terminal status, backing-store write under a bounded timeout, and a local
// fallback when the store is unreachable. onProgress may be nil.
//
// A task exists only for accepted files: validation rejections return before
// the tracker is touched, so no progress events fire and nothing shows up in
// the active set.
func (s *Service) Upload(ctx context.Context, input *UploadInput, onProgress ProgressFunc) (*AssetView, error) {
	if input == nil {
		return nil, errors.New("input required")
	}

	// Defensive re-validation; callers are expected to have validated already.
	if res := s.uploads.Validate(input.FileName, input.ContentType, int64(len(input.Data))); !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrUploadRejected, res.Reason)
	}

	task := s.tasks.begin(input.FileName)
	emit := func(t UploadTask, ok bool) {
		if ok && onProgress != nil {
			onProgress(t)
		}
	}
	emit(task, true)

	fail := func(reason string, err error) (*AssetView, error) {
		// Progress 0 keeps whatever the task already reached; the clamp in
		// the tracker never lets it move backwards.
		emit(s.tasks.advance(task.ID, StatusFailed, 0, reason))
		return nil, err
	}

	if input.FolderID != "" {
		if _, err := s.logic.GetFolder(ctx, input.FolderID); err != nil {
			return fail(err.Error(), err)
		}
	}

	fileID := uuid.NewString()
	fileName := util.SafeFileName(input.FileName)
	key := fmt.Sprintf("%s/%s", fileID, fileName)
	kind := validator.KindFromMime(input.ContentType)

	// Network phase: stream the payload, mapping bytes written to 0-100.
	progress := func(percent int) {
		emit(s.tasks.advance(task.ID, StatusUploading, percent, ""))
	}
	progress(0)

	source := model.SourceLive
	originURL, err := s.putPrimary(ctx, key, fileName, input, progress)
	if err != nil {
		// Backing store unreachable: serve the asset from the local
		// fallback store so the caller's workflow is never blocked.
		hlog.CtxWarnf(ctx, "primary store unavailable, falling back: %v", err)
		source = model.SourceLocalFallback
		originURL, err = s.putFallback(ctx, key, fileName, input, progress)
		if err != nil {
			return fail("storage unavailable", fmt.Errorf("fallback store: %w", err))
		}
	}

	// Server-side derivation phase.
	emit(s.tasks.advance(task.ID, StatusProcessing, 100, ""))

	asset := &model.Asset{
		FileID:       fileID,
		FileName:     fileName,
		OriginalName: input.FileName,
		Kind:         string(kind),
		ContentType:  input.ContentType,
		SizeBytes:    int64(len(input.Data)),
		Path:         key,
		OriginURL:    originURL,
		FolderID:     input.FolderID,
		UploadedBy:   input.UploadedBy,
		Alt:          input.Alt,
		Caption:      input.Caption,
		Source:       source,
	}
	s.attachMetadata(ctx, asset, input.Data)

	if err := s.logic.CreateAsset(ctx, asset); err != nil {
		// Roll back the stored object so no orphan payload survives a
		// failed upload.
		s.removeObject(ctx, source, key)
		return fail("catalog write failed", err)
	}

	emit(s.tasks.advance(task.ID, StatusCompleted, 100, ""))
	view := s.decorateAsset(asset)
	return &view, nil
}

// UploadMany ingests files strictly in the order supplied. Per-file failures
// are collected in the results, never thrown.
func (s *Service) UploadMany(ctx context.Context, inputs []*UploadInput, onProgress ProgressFunc) []UploadResult {
	results := make([]UploadResult, 0, len(inputs))
	for _, input := range inputs {
		var last UploadTask
		view, err := s.Upload(ctx, input, func(t UploadTask) {
			last = t
			if onProgress != nil {
				onProgress(t)
			}
		})
		result := UploadResult{FileName: input.FileName, Task: last, Asset: view}
		if err != nil {
			result.Err = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// putPrimary writes to the backing store under the upload timeout.
func (s *Service) putPrimary(ctx context.Context, key, fileName string, input *UploadInput, progress func(int)) (string, error) {
	if s.store == nil {
		return "", errors.New("no primary store configured")
	}

	putCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	reader := newProgressReader(input.Data, progress)
	if err := s.store.PutObject(putCtx, key, reader, input.ContentType, int64(len(input.Data))); err != nil {
		return "", err
	}
	progress(100)
	return s.store.OriginURL(ctx, key, fileName)
}

// putFallback writes to the local fallback store, re-emitting the progress
// ramp; the tracker's monotonic clamp keeps the observed sequence sane.
func (s *Service) putFallback(ctx context.Context, key, fileName string, input *UploadInput, progress func(int)) (string, error) {
	if s.fallback == nil {
		return "", errors.New("no fallback store configured")
	}

	reader := newProgressReader(input.Data, progress)
	if err := s.fallback.PutObject(ctx, key, reader, input.ContentType, int64(len(input.Data))); err != nil {
		return "", err
	}
	progress(100)
	return s.fallback.OriginURL(ctx, key, fileName)
}

func (s *Service) removeObject(ctx context.Context, source, key string) {
	if source == model.SourceLocalFallback {
		if s.fallback != nil {
			_ = s.fallback.DeleteObject(ctx, key)
		}
		return
	}
	if s.store != nil {
		_ = s.store.DeleteObject(ctx, key)
	}
}

// attachMetadata fills class-specific metadata: intrinsic dimensions for
// images, a preview frame for video. Both degrade gracefully.
func (s *Service) attachMetadata(ctx context.Context, asset *model.Asset, data []byte) {
	switch validator.Kind(asset.Kind) {
	case validator.KindImage:
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			asset.Width = cfg.Width
			asset.Height = cfg.Height
			asset.Format = format
		}
	case validator.KindVideo:
		if s.thumbs == nil {
			return
		}
		ext := strings.ToLower(filepath.Ext(asset.FileName))
		if meta, err := s.thumbs.ProbeBytes(ctx, data, ext); err == nil {
			asset.DurationSeconds = meta.DurationSeconds
			asset.HasAudio = meta.HasAudio
		} else {
			hlog.CtxWarnf(ctx, "stream probe failed for %s: %v", asset.FileName, err)
		}
		thumb, err := s.thumbs.ExtractFromBytes(ctx, data, ext)
		if err != nil {
			// No preview is fine; the upload itself proceeds.
			hlog.CtxWarnf(ctx, "thumbnail extraction failed for %s: %v", asset.FileName, err)
			return
		}
		asset.ThumbnailURL = thumb
	}
}

// progressReader reports percent completion as the payload is consumed.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress func(int)
}

func newProgressReader(data []byte, progress func(int)) *progressReader {
	return &progressReader{
		r:        bytes.NewReader(data),
		total:    int64(len(data)),
		progress: progress,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		p.progress(int(p.read * 100 / p.total))
	}
	return n, err
}
