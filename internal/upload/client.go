package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mediakit/internal/httputil"
	"mediakit/internal/media"
)

const (
	// Files above this size are compressed before upload.
	compressThreshold = 1 << 20

	// DefaultBatchSize is how many uploads run concurrently per batch.
	DefaultBatchSize = 3

	defaultBatchPause = 500 * time.Millisecond
)

// hostResponse is the image host reply; the hosted URL is nested under data.
type hostResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Client uploads images to the external image host.
type Client struct {
	apiKey   string
	baseURL  string
	maxBytes int64
	http     *http.Client
	logger   *slog.Logger

	// pause between batches; shortened in tests.
	pause time.Duration
}

// NewClient builds an upload client. maxBytes caps the post-compression
// file size; zero means 10MB.
func NewClient(apiKey, baseURL string, maxBytes int64, httpClient *http.Client, logger *slog.Logger) *Client {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if httpClient == nil {
		httpClient = httputil.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		maxBytes: maxBytes,
		http:     httpClient,
		logger:   logger,
		pause:    defaultBatchPause,
	}
}

// UploadOne compresses (when needed) and uploads a single image, returning
// the hosted URL.
func (c *Client) UploadOne(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if info.Size() > compressThreshold {
		compressed, err := Compress(path, CompressOptions{})
		if err != nil {
			return "", fmt.Errorf("compressing %s: %w", filepath.Base(path), err)
		}
		if compressed != path {
			defer os.Remove(compressed)
		}
		path = compressed

		if info, err = os.Stat(path); err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if info.Size() > c.maxBytes {
		return "", fmt.Errorf("%s is %.1fMB after compression, max is %dMB",
			filepath.Base(path), float64(info.Size())/(1<<20), c.maxBytes>>20)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	body, err := httputil.PostMultipart(ctx, c.http, c.baseURL,
		map[string]string{"key": c.apiKey},
		"image", httputil.SanitizeFilename(filepath.Base(path)), f)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
	}

	var resp hostResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing image host response: %w", err)
	}
	if resp.Data.URL == "" {
		return "", fmt.Errorf("image host response missing url")
	}

	return resp.Data.URL, nil
}

// UploadBatch uploads files in sequential batches of batchSize, concurrent
// within a batch. Per-file status transitions are reported via onProgress.
// Failed uploads yield "" in the result slice without aborting siblings.
func (c *Client) UploadBatch(ctx context.Context, paths []string, batchSize int, onProgress func(media.UploadProgress)) []string {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	results := make([]string, len(paths))

	for start := 0; start < len(paths); start += batchSize {
		end := min(start+batchSize, len(paths))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c.report(onProgress, media.UploadProgress{Index: i, Percent: 0, Status: media.StatusUploading})

				url, err := c.UploadOne(ctx, paths[i])
				if err != nil {
					c.logger.Debug("upload failed", "file", paths[i], "error", err)
					c.report(onProgress, media.UploadProgress{Index: i, Percent: 100, Status: media.StatusError, Err: err})
					return
				}

				results[i] = url
				c.report(onProgress, media.UploadProgress{Index: i, Percent: 100, Status: media.StatusCompleted})
			}(i)
		}
		wg.Wait()

		if end < len(paths) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(c.pause):
			}
		}
	}

	return results
}

func (c *Client) report(onProgress func(media.UploadProgress), p media.UploadProgress) {
	if onProgress != nil {
		onProgress(p)
	}
}
