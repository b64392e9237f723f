// Package thumbnail extracts a single still frame from a video file so the
// catalog can show a preview before any server-side thumbnail exists.
package thumbnail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// seekOffsetSeconds is how far into the video the preview frame is taken.
	seekOffsetSeconds = 1
	// jpegQScale is ffmpeg's mjpeg quantizer scale (2 best, 31 worst);
	// 5 lands around 80% JPEG quality.
	jpegQScale = 5
)

// ErrDecoderUnavailable indicates no frame decoder is installed on the host.
var ErrDecoderUnavailable = errors.New("frame decoder unavailable")

// Extractor captures preview frames by shelling out to ffmpeg and reads
// stream metadata through ffprobe. Each call works in its own temp
// directory, so concurrent extractions for different files share no state.
type Extractor struct {
	binary string
	probe  string
}

// New creates an Extractor using the ffmpeg/ffprobe binaries found on PATH.
func New() *Extractor {
	return &Extractor{binary: "ffmpeg", probe: "ffprobe"}
}

// NewWithBinary creates an Extractor using an explicit decoder path; the
// prober still comes from PATH.
func NewWithBinary(path string) *Extractor {
	return &Extractor{binary: path, probe: "ffprobe"}
}

// Extract decodes the frame at the fixed seek offset of the given video file
// and returns it as a base64 JPEG data URL at the video's native dimensions.
// Failure means "no thumbnail available" and must not fail the upload itself.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (string, error) {
	bin, err := exec.LookPath(e.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrDecoderUnavailable, e.binary)
	}

	dir, err := os.MkdirTemp("", "mediahub-thumb-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	framePath := filepath.Join(dir, "frame.jpg")
	cmd := exec.CommandContext(ctx, bin,
		"-ss", fmt.Sprintf("%d", seekOffsetSeconds),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", fmt.Sprintf("%d", jpegQScale),
		"-y", framePath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("decode frame: %w: %s", err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("decode frame: empty output")
	}

	return EncodeDataURL(data), nil
}

// ExtractFromBytes writes the video payload to a temp file and extracts a
// frame from it. Useful when the caller holds the upload in memory.
func (e *Extractor) ExtractFromBytes(ctx context.Context, data []byte, ext string) (string, error) {
	path, cleanup, err := writeTempVideo(data, ext)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return e.Extract(ctx, path)
}

// Meta is the stream-level metadata ffprobe reports for a video payload.
type Meta struct {
	DurationSeconds float64
	HasAudio        bool
}

// Probe reads duration and audio presence from the given video file.
func (e *Extractor) Probe(ctx context.Context, videoPath string) (Meta, error) {
	bin, err := exec.LookPath(e.probe)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %s not found", ErrDecoderUnavailable, e.probe)
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration:stream=codec_type",
		"-of", "json",
		videoPath,
	)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Meta{}, fmt.Errorf("probe streams: %w: %s", err, lastLine(stderr.String()))
	}
	return parseProbe([]byte(stdout.String()))
}

// ProbeBytes writes the video payload to a temp file and probes it.
func (e *Extractor) ProbeBytes(ctx context.Context, data []byte, ext string) (Meta, error) {
	path, cleanup, err := writeTempVideo(data, ext)
	if err != nil {
		return Meta{}, err
	}
	defer cleanup()

	return e.Probe(ctx, path)
}

// parseProbe decodes ffprobe's JSON output. Duration arrives as a string.
func parseProbe(out []byte) (Meta, error) {
	var report struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		return Meta{}, fmt.Errorf("parse probe output: %w", err)
	}

	meta := Meta{}
	if report.Format.Duration != "" {
		d, err := strconv.ParseFloat(report.Format.Duration, 64)
		if err != nil {
			return Meta{}, fmt.Errorf("parse duration %q: %w", report.Format.Duration, err)
		}
		meta.DurationSeconds = d
	}
	for _, s := range report.Streams {
		if s.CodecType == "audio" {
			meta.HasAudio = true
			break
		}
	}
	return meta, nil
}

func writeTempVideo(data []byte, ext string) (string, func(), error) {
	if len(data) == 0 {
		return "", nil, errors.New("empty video payload")
	}
	if ext == "" {
		ext = ".mp4"
	}

	f, err := os.CreateTemp("", "mediahub-video-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

// EncodeDataURL wraps JPEG bytes in a data URL consumable by an <img> tag.
func EncodeDataURL(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
