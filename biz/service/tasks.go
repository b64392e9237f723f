package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle of one in-flight upload.
type TaskStatus string

const (
	StatusQueued     TaskStatus = "queued"
	StatusUploading  TaskStatus = "uploading"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether the status ends the task.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// UploadTask is the ephemeral progress record for one upload. It is never
// persisted; completed and failed tasks linger briefly in the active set so
// the UI can show a completion flash.
type UploadTask struct {
	ID       string     `json:"id"`
	FileName string     `json:"filename"`
	Progress int        `json:"progress"`
	Status   TaskStatus `json:"status"`
	Reason   string     `json:"reason,omitempty"`
}

// ProgressFunc receives a snapshot of the task after every transition.
type ProgressFunc func(UploadTask)

// defaultEvictDelay is how long terminal tasks stay visible.
const defaultEvictDelay = 3 * time.Second

// taskTracker owns the active upload set. All methods are safe for
// concurrent use.
type taskTracker struct {
	mu         sync.Mutex
	tasks      map[string]*UploadTask
	evictDelay time.Duration
}

func newTaskTracker(evictDelay time.Duration) *taskTracker {
	if evictDelay <= 0 {
		evictDelay = defaultEvictDelay
	}
	return &taskTracker{
		tasks:      make(map[string]*UploadTask),
		evictDelay: evictDelay,
	}
}

// begin registers a new task in the queued state. Task ids are unique across
// the tracker's lifetime.
func (t *taskTracker) begin(fileName string) UploadTask {
	task := UploadTask{
		ID:       uuid.NewString(),
		FileName: fileName,
		Status:   StatusQueued,
	}
	t.mu.Lock()
	t.tasks[task.ID] = &task
	t.mu.Unlock()
	return task
}

// advance moves a task forward and returns the updated snapshot. Progress is
// clamped so the observed sequence is monotonically non-decreasing, and a
// task that already reached a terminal status never transitions again.
func (t *taskTracker) advance(id string, status TaskStatus, progress int, reason string) (UploadTask, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.Status.Terminal() {
		return UploadTask{}, false
	}

	if progress < task.Progress {
		progress = task.Progress
	}
	if progress > 100 {
		progress = 100
	}
	task.Progress = progress
	task.Status = status
	task.Reason = reason

	if status.Terminal() {
		go t.evictLater(id)
	}
	return *task, true
}

func (t *taskTracker) evictLater(id string) {
	time.Sleep(t.evictDelay)
	t.mu.Lock()
	delete(t.tasks, id)
	t.mu.Unlock()
}

// snapshot returns a copy of every active task.
func (t *taskTracker) snapshot() []UploadTask {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]UploadTask, 0, len(t.tasks))
	for _, task := range t.tasks {
		out = append(out, *task)
	}
	return out
}
