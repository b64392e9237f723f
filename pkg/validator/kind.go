package validator

import "strings"

// Kind classifies an asset by its media class. It is resolved once at
// ingestion time and carried on the asset record, so downstream code never
// has to re-derive it from the raw MIME string.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

// documentMimeTypes lists non-image, non-video MIME types that render as
// downloadable documents in the catalog.
var documentMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/zip": true,
	"text/plain":      true,
	"text/csv":        true,
}

// KindFromMime resolves the asset kind from a MIME type. Parameters such as
// "; charset=utf-8" are stripped before matching.
func KindFromMime(mimeType string) Kind {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}

	switch {
	case strings.HasPrefix(normalized, "image/"):
		return KindImage
	case strings.HasPrefix(normalized, "video/"):
		return KindVideo
	case documentMimeTypes[normalized]:
		return KindDocument
	default:
		return KindOther
	}
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindImage, KindVideo, KindDocument, KindOther:
		return true
	}
	return false
}
