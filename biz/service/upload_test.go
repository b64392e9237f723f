package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pressio/mediahub/biz/dal/db"
	"github.com/pressio/mediahub/biz/dal/model"
	"github.com/pressio/mediahub/pkg/delivery"
	pkgstorage "github.com/pressio/mediahub/pkg/storage"
	"github.com/pressio/mediahub/pkg/storage/local"
)

// unreachableStore simulates a backing store that is down.
type unreachableStore struct{}

func (unreachableStore) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	return errors.New("connection refused")
}

func (unreachableStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("connection refused")
}

func (unreachableStore) DeleteObject(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

func (unreachableStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("connection refused")
}

func (unreachableStore) OriginURL(ctx context.Context, key, fileName string) (string, error) {
	return "", errors.New("connection refused")
}

func (unreachableStore) Type() string { return "s3" }

func newTestService(t *testing.T, mutate ...func(*Options)) *Service {
	t.Helper()

	gdb := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, gdb) })

	primary, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("primary store: %v", err)
	}
	fallback, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("fallback store: %v", err)
	}

	opts := Options{
		DB:         gdb,
		Store:      primary,
		Fallback:   fallback,
		Deriver:    delivery.New("cdn.test", true),
		Optimize:   true,
		EvictDelay: 30 * time.Millisecond,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	return NewService(opts)
}

func jpegInput(name string, size int) *UploadInput {
	return &UploadInput{
		FileName:    name,
		ContentType: "image/jpeg",
		Data:        bytes.Repeat([]byte{0xAB}, size),
		UploadedBy:  "editor-1",
	}
}

func assertProgressContract(t *testing.T, events []UploadTask, wantFinal TaskStatus) {
	t.Helper()
	if len(events) == 0 {
		t.Fatalf("no progress events observed")
	}

	last := -1
	terminals := 0
	for _, e := range events {
		if e.Progress < last {
			t.Fatalf("progress went backwards: %d after %d", e.Progress, last)
		}
		last = e.Progress
		if e.Status.Terminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("expected exactly one terminal event, got %d", terminals)
	}

	final := events[len(events)-1]
	if final.Status != wantFinal {
		t.Fatalf("final status = %s, want %s", final.Status, wantFinal)
	}
	if wantFinal == StatusCompleted && final.Progress != 100 {
		t.Fatalf("completed event must carry progress 100, got %d", final.Progress)
	}
}

func TestUploadProgressContract(t *testing.T) {
	svc := newTestService(t)

	var events []UploadTask
	view, err := svc.Upload(context.Background(), jpegInput("photo.jpg", 64*1024), func(t UploadTask) {
		events = append(events, t)
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	assertProgressContract(t, events, StatusCompleted)

	if view.Source != model.SourceLive {
		t.Fatalf("expected live source, got %s", view.Source)
	}
	if view.FileID == "" || view.OriginURL == "" {
		t.Fatalf("asset incomplete: %+v", view)
	}

	// A processing phase must precede completion.
	sawProcessing := false
	for _, e := range events {
		if e.Status == StatusProcessing {
			sawProcessing = true
		}
	}
	if !sawProcessing {
		t.Fatalf("no processing phase observed")
	}
}

func TestUploadRejectsInvalidFile(t *testing.T) {
	svc := newTestService(t)

	input := jpegInput("huge.jpg", 1024)
	input.Data = nil // validator rejects empty payloads
	_, err := svc.Upload(context.Background(), input, nil)
	if !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got %v", err)
	}

	// A failed upload never reaches the catalog.
	page, err := svc.List(context.Background(), db.AssetQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Files) != 0 {
		t.Fatalf("rejected upload leaked into catalog: %+v", page.Files)
	}
}

func TestUploadRejectsOversizedVideoBeforeAnyStoreWrite(t *testing.T) {
	var putCalls int
	svc := newTestService(t)
	svc.store = storeSpy{inner: svc.store, putCalls: &putCalls}

	input := &UploadInput{
		FileName:    "film.avi",
		ContentType: "video/x-msvideo",
		Data:        []byte("not really a video"),
	}
	if _, err := svc.Upload(context.Background(), input, nil); !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if putCalls != 0 {
		t.Fatalf("store was contacted despite validation failure")
	}
}

// storeSpy counts PutObject calls on the way through.
type storeSpy struct {
	inner    pkgstorage.Store
	putCalls *int
}

func (s storeSpy) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	(*s.putCalls)++
	return s.inner.PutObject(ctx, key, data, contentType, size)
}

func (s storeSpy) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.inner.GetObject(ctx, key)
}

func (s storeSpy) DeleteObject(ctx context.Context, key string) error {
	return s.inner.DeleteObject(ctx, key)
}

func (s storeSpy) ObjectExists(ctx context.Context, key string) (bool, error) {
	return s.inner.ObjectExists(ctx, key)
}

func (s storeSpy) OriginURL(ctx context.Context, key, fileName string) (string, error) {
	return s.inner.OriginURL(ctx, key, fileName)
}

func (s storeSpy) Type() string { return s.inner.Type() }

func TestUploadFallsBackWhenStoreUnreachable(t *testing.T) {
	svc := newTestService(t, func(o *Options) {
		o.Store = unreachableStore{}
	})

	var events []UploadTask
	view, err := svc.Upload(context.Background(), jpegInput("stranded.jpg", 2048), func(t UploadTask) {
		events = append(events, t)
	})
	if err != nil {
		t.Fatalf("Upload should succeed via fallback, got %v", err)
	}

	// The progress contract is indistinguishable from the live path.
	assertProgressContract(t, events, StatusCompleted)

	// The source tag is the one observable difference.
	if view.Source != model.SourceLocalFallback {
		t.Fatalf("expected local-fallback source, got %s", view.Source)
	}

	exists, err := svc.fallback.ObjectExists(context.Background(), view.Path)
	if err != nil || !exists {
		t.Fatalf("fallback payload missing: %v %v", exists, err)
	}

	page, err := svc.List(context.Background(), db.AssetQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Files) != 1 {
		t.Fatalf("fallback asset missing from catalog")
	}
}

func TestUploadRejectionCreatesNoTask(t *testing.T) {
	svc := newTestService(t)

	var events []UploadTask
	input := &UploadInput{
		FileName:    "film.avi",
		ContentType: "video/x-msvideo",
		Data:        []byte("not really a video"),
	}
	_, err := svc.Upload(context.Background(), input, func(task UploadTask) {
		events = append(events, task)
	})
	if !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}

	// A task exists only once the validator accepts the file, so a rejected
	// upload is invisible: no events, nothing in the active set.
	if len(events) != 0 {
		t.Fatalf("rejected upload emitted %d progress events: %+v", len(events), events)
	}
	if tasks := svc.ActiveUploads(); len(tasks) != 0 {
		t.Fatalf("rejected upload left %d active tasks: %+v", len(tasks), tasks)
	}
}

func TestUploadManyCollectsFailures(t *testing.T) {
	svc := newTestService(t)

	valid := jpegInput("ok.jpg", 1024)
	invalid := &UploadInput{
		FileName:    "bad.avi",
		ContentType: "video/x-msvideo",
		Data:        []byte("x"),
	}

	results := svc.UploadMany(context.Background(), []*UploadInput{valid, invalid}, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err != "" || results[0].Asset == nil {
		t.Fatalf("valid file should succeed: %+v", results[0])
	}
	if results[1].Err == "" || results[1].Asset != nil {
		t.Fatalf("invalid file should fail without aborting the batch: %+v", results[1])
	}
	if results[0].FileName != "ok.jpg" || results[1].FileName != "bad.avi" {
		t.Fatalf("results out of order: %+v", results)
	}

	page, _ := svc.List(context.Background(), db.AssetQuery{})
	if len(page.Files) != 1 {
		t.Fatalf("catalog should contain only the valid file, got %d", len(page.Files))
	}
}

func TestUploadTaskIDsUnique(t *testing.T) {
	svc := newTestService(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		var taskID string
		_, err := svc.Upload(context.Background(), jpegInput("photo.jpg", 512), func(t UploadTask) {
			taskID = t.ID
		})
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		if seen[taskID] {
			t.Fatalf("task id reused: %s", taskID)
		}
		seen[taskID] = true
	}
}

func TestUploadIntoMissingFolderFails(t *testing.T) {
	svc := newTestService(t)

	input := jpegInput("photo.jpg", 512)
	input.FolderID = "no-such-folder"
	if _, err := svc.Upload(context.Background(), input, nil); !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}

	page, _ := svc.List(context.Background(), db.AssetQuery{})
	if len(page.Files) != 0 {
		t.Fatalf("failed upload leaked into catalog")
	}
}

func TestActiveUploadsEvictedAfterTerminalDelay(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Upload(context.Background(), jpegInput("photo.jpg", 512), nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Completed task lingers briefly for the UI flash, then goes away.
	if tasks := svc.ActiveUploads(); len(tasks) != 1 {
		t.Fatalf("expected lingering completed task, got %d", len(tasks))
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(svc.ActiveUploads()) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("terminal task never evicted")
}

func TestUploadTimeoutProducesFallback(t *testing.T) {
	svc := newTestService(t, func(o *Options) {
		o.Store = slowStore{}
		o.UploadTimeout = 20 * time.Millisecond
	})

	var events []UploadTask
	view, err := svc.Upload(context.Background(), jpegInput("slow.jpg", 512), func(t UploadTask) {
		events = append(events, t)
	})
	if err != nil {
		t.Fatalf("Upload should fall back on timeout, got %v", err)
	}
	if view.Source != model.SourceLocalFallback {
		t.Fatalf("expected fallback after timeout, got %s", view.Source)
	}
	assertProgressContract(t, events, StatusCompleted)
}

// slowStore blocks until the context expires.
type slowStore struct{}

func (slowStore) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	<-ctx.Done()
	return ctx.Err()
}

func (slowStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("unavailable")
}

func (slowStore) DeleteObject(ctx context.Context, key string) error { return nil }

func (slowStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (slowStore) OriginURL(ctx context.Context, key, fileName string) (string, error) {
	return "", errors.New("unavailable")
}

func (slowStore) Type() string { return "s3" }

func TestReconcilePromotesFallbackAssets(t *testing.T) {
	svc := newTestService(t, func(o *Options) {
		o.Store = unreachableStore{}
	})

	view, err := svc.Upload(context.Background(), jpegInput("stranded.jpg", 1024), nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// The store comes back.
	recovered, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("recovered store: %v", err)
	}
	svc.store = recovered

	n, err := svc.ReconcileFallback(context.Background())
	if err != nil {
		t.Fatalf("ReconcileFallback: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 promotion, got %d", n)
	}

	asset, err := svc.logic.GetAsset(context.Background(), view.FileID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset.Source != model.SourceLive {
		t.Fatalf("asset still tagged %s", asset.Source)
	}

	exists, _ := recovered.ObjectExists(context.Background(), asset.Path)
	if !exists {
		t.Fatalf("payload missing from primary store after reconcile")
	}
	exists, _ = svc.fallback.ObjectExists(context.Background(), asset.Path)
	if exists {
		t.Fatalf("fallback payload not cleaned up")
	}

	// Nothing left to promote.
	if n, _ := svc.ReconcileFallback(context.Background()); n != 0 {
		t.Fatalf("second run promoted %d", n)
	}
}

func TestUploadPreservesPayload(t *testing.T) {
	svc := newTestService(t)

	input := jpegInput("photo.jpg", 4096)
	view, err := svc.Upload(context.Background(), input, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	_, reader, err := svc.GetAssetFile(context.Background(), view.FileID)
	if err != nil {
		t.Fatalf("GetAssetFile: %v", err)
	}
	defer reader.Close()
	data, _ := io.ReadAll(reader)
	if !bytes.Equal(data, input.Data) {
		t.Fatalf("payload corrupted: %d bytes vs %d", len(data), len(input.Data))
	}
}

func TestUploadSanitizesStorageFileName(t *testing.T) {
	svc := newTestService(t)

	input := jpegInput("../../etc/evil name.jpg", 256)
	view, err := svc.Upload(context.Background(), input, nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if strings.Contains(view.FileName, "..") || strings.Contains(view.FileName, "/") {
		t.Fatalf("storage file name unsafe: %q", view.FileName)
	}
	if view.OriginalName != "../../etc/evil name.jpg" {
		t.Fatalf("original name must be preserved verbatim: %q", view.OriginalName)
	}
}
