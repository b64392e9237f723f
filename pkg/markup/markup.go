// Package markup renders selected assets into HTML fragments for insertion
// into the host rich-text surface. It only returns fragments; inserting them
// at the cursor is the caller's responsibility.
package markup

import (
	"fmt"
	"html"

	"github.com/pressio/mediahub/pkg/validator"
)

// Asset carries the fields the bridge needs to render one fragment.
type Asset struct {
	Kind         validator.Kind
	OriginURL    string
	WebPURL      string
	ThumbnailURL string
	OriginalName string
	Alt          string
	Caption      string
}

// ToMarkup renders one HTML fragment per asset, in input order. Image assets
// prefer the lighter-weight WebP alternate when one is present; a caption
// wraps the image in a figure element. Attribute values are escaped, so the
// origin URL and alt text survive a round-trip through an HTML parser.
func ToMarkup(assets []Asset) []string {
	fragments := make([]string, 0, len(assets))
	for _, a := range assets {
		fragments = append(fragments, render(a))
	}
	return fragments
}

func render(a Asset) string {
	switch a.Kind {
	case validator.KindImage:
		return renderImage(a)
	case validator.KindVideo:
		return renderVideo(a)
	default:
		return renderLink(a)
	}
}

func renderImage(a Asset) string {
	src := a.OriginURL
	if a.WebPURL != "" {
		src = a.WebPURL
	}
	img := fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(a.Alt))
	if a.Caption == "" {
		return img
	}
	return fmt.Sprintf(`<figure class="media-figure">%s<figcaption>%s</figcaption></figure>`,
		img, html.EscapeString(a.Caption))
}

func renderVideo(a Asset) string {
	poster := ""
	if a.ThumbnailURL != "" {
		poster = fmt.Sprintf(` poster="%s"`, html.EscapeString(a.ThumbnailURL))
	}
	return fmt.Sprintf(`<video controls src="%s"%s>Your browser does not support embedded video.</video>`,
		html.EscapeString(a.OriginURL), poster)
}

func renderLink(a Asset) string {
	name := a.OriginalName
	if name == "" {
		name = a.OriginURL
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`,
		html.EscapeString(a.OriginURL), html.EscapeString(name))
}
