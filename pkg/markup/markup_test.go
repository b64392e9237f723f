package markup

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/pressio/mediahub/pkg/validator"
)

func TestToMarkupPreservesOrder(t *testing.T) {
	fragments := ToMarkup([]Asset{
		{Kind: validator.KindImage, OriginURL: "https://o.example.com/a.jpg"},
		{Kind: validator.KindVideo, OriginURL: "https://o.example.com/b.mp4"},
		{Kind: validator.KindDocument, OriginURL: "https://o.example.com/c.pdf", OriginalName: "report.pdf"},
	})

	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}
	if !strings.HasPrefix(fragments[0], "<img") {
		t.Fatalf("fragment 0 should be an image: %q", fragments[0])
	}
	if !strings.HasPrefix(fragments[1], "<video") {
		t.Fatalf("fragment 1 should be a video: %q", fragments[1])
	}
	if !strings.HasPrefix(fragments[2], "<a ") {
		t.Fatalf("fragment 2 should be a link: %q", fragments[2])
	}
}

func TestImagePrefersWebPAlternate(t *testing.T) {
	fragments := ToMarkup([]Asset{{
		Kind:      validator.KindImage,
		OriginURL: "https://o.example.com/a.jpg",
		WebPURL:   "https://cdn.example.com/a.jpg?q=80&fm=webp",
	}})

	if !strings.Contains(fragments[0], "fm=webp") {
		t.Fatalf("expected WebP alternate as src: %q", fragments[0])
	}
}

func TestImageCaptionWrapper(t *testing.T) {
	fragments := ToMarkup([]Asset{{
		Kind:      validator.KindImage,
		OriginURL: "https://o.example.com/a.jpg",
		Caption:   "A sunset",
	}})

	frag := fragments[0]
	if !strings.HasPrefix(frag, "<figure") || !strings.Contains(frag, "<figcaption>A sunset</figcaption>") {
		t.Fatalf("caption wrapper missing: %q", frag)
	}
}

func TestVideoFallbackTextAndPoster(t *testing.T) {
	fragments := ToMarkup([]Asset{{
		Kind:         validator.KindVideo,
		OriginURL:    "https://o.example.com/b.mp4",
		ThumbnailURL: "data:image/jpeg;base64,abc",
	}})

	frag := fragments[0]
	if !strings.Contains(frag, "does not support") {
		t.Fatalf("video fallback text missing: %q", frag)
	}
	if !strings.Contains(frag, `poster="data:image/jpeg;base64,abc"`) {
		t.Fatalf("poster missing: %q", frag)
	}
}

func TestDocumentLinkUsesOriginalName(t *testing.T) {
	fragments := ToMarkup([]Asset{{
		Kind:         validator.KindDocument,
		OriginURL:    "https://o.example.com/c.pdf",
		OriginalName: "annual report.pdf",
	}})

	if !strings.Contains(fragments[0], ">annual report.pdf</a>") {
		t.Fatalf("link text missing: %q", fragments[0])
	}
}

var srcAttr = regexp.MustCompile(`src="([^"]*)"`)
var altAttr = regexp.MustCompile(`alt="([^"]*)"`)

func TestRoundTripRecoversOriginAndAlt(t *testing.T) {
	origin := `https://o.example.com/a.jpg?x=1&y=2`
	alt := `cats & "dogs" <together>`

	fragments := ToMarkup([]Asset{{Kind: validator.KindImage, OriginURL: origin, Alt: alt}})
	frag := fragments[0]

	srcMatch := srcAttr.FindStringSubmatch(frag)
	altMatch := altAttr.FindStringSubmatch(frag)
	if srcMatch == nil || altMatch == nil {
		t.Fatalf("attributes missing: %q", frag)
	}
	if got := html.UnescapeString(srcMatch[1]); got != origin {
		t.Fatalf("origin not recoverable: %q", got)
	}
	if got := html.UnescapeString(altMatch[1]); got != alt {
		t.Fatalf("alt not recoverable: %q", got)
	}
}
