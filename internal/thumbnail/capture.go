package thumbnail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// captureTimeout guards against media that never produces a frame.
const captureTimeout = 30 * time.Second

// CaptureFrame extracts a single frame one second into the media at
// mediaURL using ffmpeg, scaled down to at most maxWidth, and returns it
// as a JPEG data URL. The temp file is removed on every path.
func CaptureFrame(ctx context.Context, mediaURL string, maxWidth int) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	tmp, err := os.CreateTemp("", "mediakit-frame-*.jpg")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	// -q:v 7 lands near the 0.7 JPEG quality the front-end used.
	args := []string{
		"-y",
		"-ss", "1",
		"-i", mediaURL,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale='min(%d,iw)':-2", maxWidth),
		"-q:v", "7",
		outPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("frame capture timed out: %w", ctx.Err())
		}
		return "", fmt.Errorf("ffmpeg frame capture: %w (%s)", err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("reading captured frame: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("ffmpeg produced an empty frame for %s", mediaURL)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
