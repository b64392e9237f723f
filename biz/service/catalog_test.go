package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pressio/mediahub/biz/dal/db"
)

func TestListIncludesDerivedVariantsForImages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, jpegInput("sunset.jpg", 5*1024*1024), nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	page, err := svc.List(ctx, db.AssetQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Files) != 1 {
		t.Fatalf("expected exactly one catalog entry, got %d", len(page.Files))
	}

	file := page.Files[0]
	if file.ContentType != "image/jpeg" {
		t.Fatalf("mime type lost: %q", file.ContentType)
	}
	if file.ResponsiveURLs == nil {
		t.Fatalf("image asset missing responsive urls")
	}
	if !strings.Contains(file.ResponsiveURLs.Small, "w=300") || !strings.Contains(file.ResponsiveURLs.Small, "h=200") {
		t.Fatalf("small variant preset wrong: %q", file.ResponsiveURLs.Small)
	}
	if file.WebPURL == "" || !strings.Contains(file.WebPURL, "fm=webp") {
		t.Fatalf("webp alternate missing: %q", file.WebPURL)
	}
}

func TestListOmitsDerivedURLsForNonImages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := &UploadInput{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	}
	if _, err := svc.Upload(ctx, input, nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	page, err := svc.List(ctx, db.AssetQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Files[0].ResponsiveURLs != nil || page.Files[0].WebPURL != "" {
		t.Fatalf("non-image asset should not carry derived urls: %+v", page.Files[0])
	}
	if page.Files[0].Kind != "document" {
		t.Fatalf("kind not resolved at ingestion: %q", page.Files[0].Kind)
	}
}

func TestRemoveIsIdempotentAndCleansStorage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Upload(ctx, jpegInput("photo.jpg", 1024), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Remove(ctx, view.FileID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.Remove(ctx, view.FileID); err != nil {
		t.Fatalf("repeat Remove must succeed, got %v", err)
	}

	page, _ := svc.List(ctx, db.AssetQuery{})
	if len(page.Files) != 0 {
		t.Fatalf("removed asset still listed")
	}
	exists, _ := svc.store.ObjectExists(ctx, view.Path)
	if exists {
		t.Fatalf("stored payload not cleaned up")
	}
}

func TestCreateFolderRejectsSlugCollision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, "Press Releases", "", "editor-1")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if folder.Slug != "press-releases" {
		t.Fatalf("slug not derived: %q", folder.Slug)
	}

	// Different display name, same derived slug under the same parent.
	if _, err := svc.CreateFolder(ctx, "press  releases", "", "editor-1"); !errors.Is(err, ErrFolderExists) {
		t.Fatalf("expected ErrFolderExists, got %v", err)
	}

	// Same slug under another parent is fine.
	if _, err := svc.CreateFolder(ctx, "Press Releases", folder.FolderID, "editor-1"); err != nil {
		t.Fatalf("nested folder with same slug: %v", err)
	}
}

func TestCreateFolderRejectsInvalidNameAndMissingParent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, "   ", "", ""); !errors.Is(err, ErrInvalidFolder) {
		t.Fatalf("expected ErrInvalidFolder, got %v", err)
	}
	if _, err := svc.CreateFolder(ctx, "Ok", "missing-parent", ""); !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestDeleteFolderRejectsWhenNotEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, "Gallery", "", "")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	input := jpegInput("a.jpg", 256)
	input.FolderID = folder.FolderID
	if _, err := svc.Upload(ctx, input, nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.DeleteFolder(ctx, folder.FolderID); !errors.Is(err, ErrFolderNotEmpty) {
		t.Fatalf("expected ErrFolderNotEmpty, got %v", err)
	}

	page, _ := svc.List(ctx, db.AssetQuery{FolderID: folder.FolderID})
	if err := svc.Remove(ctx, page.Files[0].FileID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := svc.DeleteFolder(ctx, folder.FolderID); err != nil {
		t.Fatalf("DeleteFolder on empty folder: %v", err)
	}
}

func TestFolderFileCountTracksMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, "Gallery", "", "")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	input := jpegInput("a.jpg", 256)
	input.FolderID = folder.FolderID
	view, err := svc.Upload(ctx, input, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, _ := svc.logic.GetFolder(ctx, folder.FolderID)
	if got.FileCount != 1 {
		t.Fatalf("file count after upload = %d, want 1", got.FileCount)
	}

	if err := svc.MoveAsset(ctx, view.FileID, ""); err != nil {
		t.Fatalf("MoveAsset: %v", err)
	}
	got, _ = svc.logic.GetFolder(ctx, folder.FolderID)
	if got.FileCount != 0 {
		t.Fatalf("file count after move = %d, want 0", got.FileCount)
	}
}

func TestUpdateAssetMeta(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Upload(ctx, jpegInput("photo.jpg", 256), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	updated, err := svc.UpdateAssetMeta(ctx, view.FileID, "a lighthouse", "Taken at dawn")
	if err != nil {
		t.Fatalf("UpdateAssetMeta: %v", err)
	}
	if updated.Alt != "a lighthouse" || updated.Caption != "Taken at dawn" {
		t.Fatalf("meta not applied: %+v", updated)
	}

	if _, err := svc.UpdateAssetMeta(ctx, "missing", "x", "y"); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestMarkupRendersSelectionInOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, jpegInput("photo.jpg", 256), nil)
	if err != nil {
		t.Fatalf("Upload image: %v", err)
	}
	doc, err := svc.Upload(ctx, &UploadInput{
		FileName:    "notes.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF"),
	}, nil)
	if err != nil {
		t.Fatalf("Upload doc: %v", err)
	}

	fragments, err := svc.Markup(ctx, []string{doc.FileID, img.FileID, "missing-id"})
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments (missing id skipped), got %d", len(fragments))
	}
	if !strings.HasPrefix(fragments[0], "<a ") {
		t.Fatalf("first fragment should be the document link: %q", fragments[0])
	}
	if !strings.HasPrefix(fragments[1], "<img") {
		t.Fatalf("second fragment should be the image: %q", fragments[1])
	}
	// Optimization enabled: the image uses the lighter-weight alternate.
	if !strings.Contains(fragments[1], "fm=webp") {
		t.Fatalf("image should use the webp alternate: %q", fragments[1])
	}
}

func TestVariantDerivationMemoized(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	view, err := svc.Upload(ctx, jpegInput("photo.jpg", 256), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	first, _ := svc.List(ctx, db.AssetQuery{})
	second, _ := svc.List(ctx, db.AssetQuery{})
	if *first.Files[0].ResponsiveURLs != *second.Files[0].ResponsiveURLs {
		t.Fatalf("variant sets diverged between reads")
	}
	if _, ok := svc.variantCache.Get(view.OriginURL); !ok {
		t.Fatalf("variant set not memoized")
	}
}
