package validator

import (
	"fmt"
	"strings"
)

// Default upload constraints
const (
	DefaultMaxUploadSize = 10 * 1024 * 1024  // 10MB for images and documents
	DefaultMaxVideoSize  = 500 * 1024 * 1024 // 500MB ceiling for video
)

// DefaultVideoMimeTypes contains the default allowlist of video codecs
// accepted for upload.
var DefaultVideoMimeTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// Result is the outcome of validating a candidate upload. Rejections carry a
// human-readable reason instead of an error so a batch caller can present the
// reason and keep processing remaining files.
type Result struct {
	OK     bool
	Reason string
}

// UploadConfig defines constraints for file uploads.
type UploadConfig struct {
	MaxFileSize    int64
	MaxVideoSize   int64
	VideoMimeTypes map[string]bool
}

// DefaultUploadConfig returns the default upload configuration.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:    DefaultMaxUploadSize,
		MaxVideoSize:   DefaultMaxVideoSize,
		VideoMimeTypes: DefaultVideoMimeTypes,
	}
}

// NewUploadConfig builds an UploadConfig from explicit limits. Zero limits
// and an empty allowlist fall back to the defaults.
func NewUploadConfig(maxFileSize, maxVideoSize int64, videoMimeTypes []string) *UploadConfig {
	cfg := DefaultUploadConfig()
	if maxFileSize > 0 {
		cfg.MaxFileSize = maxFileSize
	}
	if maxVideoSize > 0 {
		cfg.MaxVideoSize = maxVideoSize
	}
	if len(videoMimeTypes) > 0 {
		allow := make(map[string]bool, len(videoMimeTypes))
		for _, mt := range videoMimeTypes {
			allow[strings.ToLower(strings.TrimSpace(mt))] = true
		}
		cfg.VideoMimeTypes = allow
	}
	return cfg
}

// Validate checks a candidate file descriptor against the per-class rules.
// Video uploads must both match the codec allowlist and fit under the video
// ceiling; everything else is held to the generic ceiling. Pure: no I/O, no
// mutation, never panics.
func (c *UploadConfig) Validate(name, mimeType string, sizeBytes int64) Result {
	if sizeBytes <= 0 {
		return Result{Reason: fmt.Sprintf("%s: file is empty", name)}
	}

	normalized := normalizeMime(mimeType)
	if normalized == "" {
		return Result{Reason: fmt.Sprintf("%s: missing content type", name)}
	}

	if KindFromMime(normalized) == KindVideo {
		if !c.VideoMimeTypes[normalized] {
			return Result{Reason: fmt.Sprintf("%s: unsupported video format %s", name, normalized)}
		}
		if sizeBytes > c.MaxVideoSize {
			return Result{Reason: fmt.Sprintf("%s: video exceeds maximum size of %d bytes", name, c.MaxVideoSize)}
		}
		return Result{OK: true}
	}

	if sizeBytes > c.MaxFileSize {
		return Result{Reason: fmt.Sprintf("%s: file exceeds maximum size of %d bytes", name, c.MaxFileSize)}
	}
	return Result{OK: true}
}

func normalizeMime(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	// Handle MIME types with parameters (e.g. "text/plain; charset=utf-8")
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}
