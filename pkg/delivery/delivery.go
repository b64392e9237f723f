// Package delivery derives CDN delivery URLs from origin asset URLs.
// Derivation is pure string composition: a deterministic transform query is
// appended onto the origin path after rewriting its host to the delivery
// host. No network I/O and no caching happen here; callers that need stable
// caching memoize on top of this package.
package delivery

import (
	"net/url"
	"strconv"
	"strings"
)

// Fit values accepted in a transform.
const (
	FitCrop  = "crop"
	FitScale = "scale"
)

// FormatWebP is the lighter-weight encoding requested by the format alternate.
const FormatWebP = "webp"

// Transform describes a single delivery variant request. Zero fields are
// omitted from the composed query.
type Transform struct {
	Width   int
	Height  int
	Quality int
	Format  string
	Fit     string
}

// IsZero reports whether the transform requests no changes.
func (t Transform) IsZero() bool {
	return t.Width == 0 && t.Height == 0 && t.Quality == 0 && t.Format == "" && t.Fit == ""
}

// Variants is the fixed set of named responsive delivery URLs for an asset.
type Variants struct {
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Large    string `json:"large"`
	Original string `json:"original"`
}

// Named variant presets.
var (
	presetSmall  = Transform{Width: 300, Height: 200, Quality: 80, Fit: FitCrop}
	presetMedium = Transform{Width: 600, Height: 400, Quality: 85, Fit: FitCrop}
	presetLarge  = Transform{Width: 1200, Height: 800, Quality: 90, Fit: FitCrop}
)

// Deriver rewrites origin URLs into delivery URLs for a configured delivery
// host. A disabled Deriver (no host) passes every URL through unchanged.
type Deriver struct {
	host    string
	enabled bool
}

// New creates a Deriver for the given delivery host. The host may carry a
// scheme ("https://cdn.example.com") or be bare ("cdn.example.com"). An empty
// host or enabled=false yields an identity Deriver.
func New(host string, enabled bool) *Deriver {
	trimmed := strings.TrimSpace(host)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimSuffix(trimmed, "/")
	return &Deriver{
		host:    trimmed,
		enabled: enabled && trimmed != "",
	}
}

// Disabled creates an identity Deriver for development environments.
func Disabled() *Deriver {
	return &Deriver{}
}

// Enabled reports whether derivation rewrites URLs.
func (d *Deriver) Enabled() bool {
	return d.enabled
}

// ComposeURL maps an origin URL and a transform onto a delivery URL.
// Composition is idempotent: feeding an already-derived URL back in replaces
// the previous transform query rather than double-rewriting the host.
func (d *Deriver) ComposeURL(origin string, t Transform) string {
	if !d.enabled || origin == "" {
		return origin
	}

	u, err := url.Parse(origin)
	if err != nil {
		return origin
	}

	if u.Host == "" {
		// Relative origin (e.g. a local API path): keep the path, serve it
		// from the delivery host.
		u.Scheme = "https"
		u.Host = d.host
	} else if u.Host == d.host {
		// Already on the delivery host: drop the previous transform so the
		// caller's transform wins.
		u.RawQuery = ""
	} else {
		u.Host = d.host
		if u.Scheme == "" {
			u.Scheme = "https"
		}
	}

	if t.IsZero() {
		return u.String()
	}

	q := make([]string, 0, 5)
	if t.Width > 0 {
		q = append(q, "w="+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		q = append(q, "h="+strconv.Itoa(t.Height))
	}
	if t.Quality > 0 {
		q = append(q, "q="+strconv.Itoa(t.Quality))
	}
	if t.Format != "" {
		q = append(q, "fm="+t.Format)
	}
	if t.Fit != "" {
		q = append(q, "fit="+t.Fit)
	}
	u.RawQuery = strings.Join(q, "&")
	return u.String()
}

// DeriveVariants maps an origin URL to the fixed set of responsive variants.
// The original variant carries no transform.
func (d *Deriver) DeriveVariants(origin string) Variants {
	return Variants{
		Small:    d.ComposeURL(origin, presetSmall),
		Medium:   d.ComposeURL(origin, presetMedium),
		Large:    d.ComposeURL(origin, presetLarge),
		Original: d.ComposeURL(origin, Transform{}),
	}
}

// DeriveFormatAlternate maps an origin URL to its lighter-weight WebP
// encoding at quality 80.
func (d *Deriver) DeriveFormatAlternate(origin string) string {
	return d.ComposeURL(origin, Transform{Quality: 80, Format: FormatWebP})
}
