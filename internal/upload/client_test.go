package upload

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"mediakit/internal/media"
)

func writeTempFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", srv.URL, 10<<20, srv.Client(), nil)
	c.pause = 0
	return c, srv
}

func TestUploadOne(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("key"); got != "test-key" {
			t.Errorf("key field = %q, want test-key", got)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("image field missing: %v", err)
		}
		fmt.Fprint(w, `{"data":{"url":"https://i.example.com/hosted.jpg"},"success":true}`)
	}))

	path := writeTempFile(t, t.TempDir(), "photo.jpg", 1024)
	got, err := c.UploadOne(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadOne error: %v", err)
	}
	if got != "https://i.example.com/hosted.jpg" {
		t.Errorf("UploadOne = %q, want hosted url", got)
	}
}

func TestUploadOneServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))

	path := writeTempFile(t, t.TempDir(), "photo.jpg", 1024)
	if _, err := c.UploadOne(context.Background(), path); err == nil {
		t.Error("UploadOne succeeded on a 403 response")
	}
}

func TestUploadOneMissingURLField(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true}`)
	}))

	path := writeTempFile(t, t.TempDir(), "photo.jpg", 1024)
	if _, err := c.UploadOne(context.Background(), path); err == nil {
		t.Error("UploadOne succeeded without a url in the response")
	}
}

func TestUploadOneTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("oversized file reached the server")
	}))
	t.Cleanup(srv.Close)

	// 1MB cap, 2MB of junk: compression fails (not an image) before upload.
	c := NewClient("test-key", srv.URL, 1<<20, srv.Client(), nil)
	path := writeTempFile(t, t.TempDir(), "blob.bin", 2<<20)

	if _, err := c.UploadOne(context.Background(), path); err == nil {
		t.Error("UploadOne succeeded on an oversized non-image file")
	}
}

func TestUploadBatch(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}

		r.ParseMultipartForm(32 << 20)
		_, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image field missing: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(header.Filename, "fail") {
			http.Error(w, "rejected", http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"data":{"url":"https://i.example.com/%s"},"success":true}`, header.Filename)
	}))

	dir := t.TempDir()
	paths := make([]string, 7)
	for i := range paths {
		name := fmt.Sprintf("ok%d.jpg", i)
		if i == 2 || i == 5 {
			name = fmt.Sprintf("fail%d.jpg", i)
		}
		paths[i] = writeTempFile(t, dir, name, 512)
	}

	var mu sync.Mutex
	progress := make(map[int][]media.UploadStatus)
	results := c.UploadBatch(context.Background(), paths, 3, func(p media.UploadProgress) {
		mu.Lock()
		progress[p.Index] = append(progress[p.Index], p.Status)
		mu.Unlock()
	})

	if len(results) != 7 {
		t.Fatalf("got %d results, want 7", len(results))
	}

	for i, url := range results {
		failed := i == 2 || i == 5
		if failed && url != "" {
			t.Errorf("results[%d] = %q, want empty for failed upload", i, url)
		}
		if !failed && url == "" {
			t.Errorf("results[%d] empty, want hosted url", i)
		}
	}

	// Every index reports uploading followed by a terminal status.
	var indices []int
	for i := range progress {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	if len(indices) != 7 {
		t.Fatalf("progress reported for %d indices, want 7", len(indices))
	}
	for _, i := range indices {
		transitions := progress[i]
		if len(transitions) != 2 || transitions[0] != media.StatusUploading {
			t.Errorf("index %d transitions = %v, want [uploading, terminal]", i, transitions)
			continue
		}
		want := media.StatusCompleted
		if i == 2 || i == 5 {
			want = media.StatusError
		}
		if transitions[1] != want {
			t.Errorf("index %d final status = %v, want %v", i, transitions[1], want)
		}
	}

	if maxInFlight.Load() > 3 {
		t.Errorf("observed %d concurrent uploads, want at most 3", maxInFlight.Load())
	}
}

func TestUploadBatchDefaultsBatchSize(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"data":{"url":"https://i.example.com/x.jpg"},"success":true}`)
	}))

	dir := t.TempDir()
	paths := []string{
		writeTempFile(t, dir, "a.jpg", 128),
		writeTempFile(t, dir, "b.jpg", 128),
	}

	results := c.UploadBatch(context.Background(), paths, 0, nil)
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
	for i, url := range results {
		if url == "" {
			t.Errorf("results[%d] empty", i)
		}
	}
}
