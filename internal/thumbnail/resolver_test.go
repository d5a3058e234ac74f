package thumbnail

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"mediakit/internal/media"
)

func newTestResolver(t *testing.T, opts Options) *Resolver {
	t.Helper()
	if opts.DefaultThumbnail == "" {
		opts.DefaultThumbnail = "https://example.com/default.jpg"
	}
	return NewResolver(NewCache(), NewCache(), &http.Client{}, opts)
}

func TestStaticURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		provider media.Provider
		expected string
	}{
		{
			"youtube",
			"https://youtu.be/dQw4w9WgXcQ",
			media.YouTube,
			"https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		},
		{
			"google drive",
			"https://drive.google.com/file/d/1AbC/view",
			media.GDrive,
			"https://drive.google.com/thumbnail?id=1AbC&sz=w2000",
		},
		{
			"pornhub",
			"https://www.pornhub.com/view_video.php?viewkey=ph5f1a2b3c",
			media.PornHub,
			"https://ei.phncdn.com/videos/ph5f1a2b3c/original/5.jpg",
		},
		{
			"xvideos",
			"https://www.xvideos.com/video.kdmluhf2a1e/title",
			media.XVideos,
			"https://img-hw.xvideos-cdn.com/videos/thumbs169lll/kdm/kdmluhf2a1e/kdmluhf2a1e.1.jpg",
		},
	}

	r := newTestResolver(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.StaticURL(tt.url, tt.provider)
			if !ok {
				t.Fatalf("StaticURL(%q, %v) not ok", tt.url, tt.provider)
			}
			if got != tt.expected {
				t.Errorf("StaticURL = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStaticURLFailures(t *testing.T) {
	r := newTestResolver(t, Options{})
	tests := []struct {
		name     string
		url      string
		provider media.Provider
	}{
		{"network provider", "https://vimeo.com/123", media.Vimeo},
		{"pornhub without viewkey", "https://www.pornhub.com/view_video.php", media.PornHub},
		{"xvideos short id", "https://www.xvideos.com/video.ab/t", media.XVideos},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := r.StaticURL(tt.url, tt.provider); ok {
				t.Errorf("StaticURL = %q, want not ok", got)
			}
		})
	}
}

func TestResolveVimeoPublic(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/v2/video/123456.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"thumbnail_large":"https://i.vimeocdn.com/video/foo_640.jpg"}]`)
	}))
	defer srv.Close()

	r := NewResolver(NewCache(), NewCache(), srv.Client(), Options{
		DefaultThumbnail: "https://example.com/default.jpg",
		VimeoBase:        srv.URL,
	})

	got, err := r.ResolveVimeo(context.Background(), "https://vimeo.com/123456")
	if err != nil {
		t.Fatalf("ResolveVimeo error: %v", err)
	}
	want := "https://i.vimeocdn.com/video/foo_1920.jpg"
	if got != want {
		t.Errorf("thumbnail = %q, want %q", got, want)
	}

	// Second call must be served from the Vimeo cache.
	if _, err := r.ResolveVimeo(context.Background(), "https://vimeo.com/123456"); err != nil {
		t.Fatalf("second ResolveVimeo error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("API hit %d times, want 1", hits.Load())
	}
}

func TestResolveVimeoPrivateUsesOEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/oembed.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != "https://vimeo.com/123456/a1b2c3" {
			t.Errorf("oembed url param = %q", got)
		}
		fmt.Fprint(w, `{"thumbnail_url":"https://i.vimeocdn.com/video/bar_640.jpg"}`)
	}))
	defer srv.Close()

	r := NewResolver(NewCache(), NewCache(), srv.Client(), Options{
		DefaultThumbnail: "https://example.com/default.jpg",
		VimeoBase:        srv.URL,
	})

	got, err := r.ResolveVimeo(context.Background(), "https://vimeo.com/123456/a1b2c3")
	if err != nil {
		t.Fatalf("ResolveVimeo error: %v", err)
	}
	if got != "https://i.vimeocdn.com/video/bar_1920.jpg" {
		t.Errorf("thumbnail = %q, want upgraded oembed url", got)
	}
}

func TestResolveVimeoFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	general := NewCache()
	vimeoCache := NewCache()
	r := NewResolver(general, vimeoCache, srv.Client(), Options{
		DefaultThumbnail: "https://example.com/default.jpg",
		VimeoBase:        srv.URL,
	})

	url := "https://vimeo.com/999999"
	got := r.Resolve(context.Background(), url)
	if got != "https://example.com/default.jpg" {
		t.Errorf("Resolve = %q, want default thumbnail", got)
	}

	// The fallback is cached in the general cache only.
	if _, ok := general.Get(url); !ok {
		t.Error("fallback not recorded in general cache")
	}
	if _, ok := vimeoCache.Get(url); ok {
		t.Error("failure must not be recorded in the vimeo cache")
	}
}

func TestResolveUsesGeneralCache(t *testing.T) {
	r := newTestResolver(t, Options{})
	r.Cache().Set("https://youtu.be/abc", "https://cached.example/1.jpg")

	got := r.Resolve(context.Background(), "https://youtu.be/abc")
	if got != "https://cached.example/1.jpg" {
		t.Errorf("Resolve = %q, want cached value", got)
	}
}

func TestResolveStaticCachesResult(t *testing.T) {
	r := newTestResolver(t, Options{})

	url := "https://youtu.be/dQw4w9WgXcQ"
	want := "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"

	if got := r.Resolve(context.Background(), url); got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
	if cached, ok := r.Cache().Get(url); !ok || cached != want {
		t.Errorf("cache entry = %q (%v), want %q", cached, ok, want)
	}
}

func TestResolveUnknownURLFallsBack(t *testing.T) {
	r := newTestResolver(t, Options{})

	got := r.Resolve(context.Background(), "https://example.com/video")
	if got != r.DefaultThumbnail() {
		t.Errorf("Resolve = %q, want default thumbnail", got)
	}
	// Cached so the next call is a pure lookup.
	if _, ok := r.Cache().Get("https://example.com/video"); !ok {
		t.Error("fallback outcome not cached")
	}
}

func TestResolveDropboxCapturesFrame(t *testing.T) {
	var capturedURL string
	var capturedWidth int

	r := newTestResolver(t, Options{
		DisplayWidth: 1920,
		Capture: func(ctx context.Context, mediaURL string, maxWidth int) (string, error) {
			capturedURL = mediaURL
			capturedWidth = maxWidth
			return "data:image/jpeg;base64,Zm9v", nil
		},
	})

	url := "https://www.dropbox.com/s/abc/file.mp4?rlkey=XYZ&dl=0"
	got := r.Resolve(context.Background(), url)

	if got != "data:image/jpeg;base64,Zm9v" {
		t.Errorf("Resolve = %q, want capture result", got)
	}
	if capturedURL != "https://dl.dropboxusercontent.com/s/abc/file.mp4?rlkey=XYZ&raw=1" {
		t.Errorf("capture got media url %q, want rewritten dropbox url", capturedURL)
	}
	if capturedWidth != 960 {
		t.Errorf("capture width = %d, want 960", capturedWidth)
	}
}

func TestResolveCaptureFailureCachedAsDefault(t *testing.T) {
	calls := 0
	r := newTestResolver(t, Options{
		Capture: func(ctx context.Context, mediaURL string, maxWidth int) (string, error) {
			calls++
			return "", fmt.Errorf("no frame")
		},
	})

	url := "https://files.catbox.moe/abc.mp4"
	if got := r.Resolve(context.Background(), url); got != r.DefaultThumbnail() {
		t.Fatalf("Resolve = %q, want default", got)
	}
	// A second resolve must not re-attempt the expensive capture.
	r.Resolve(context.Background(), url)
	if calls != 1 {
		t.Errorf("capture attempted %d times, want 1", calls)
	}
}

func TestCaptureWidth(t *testing.T) {
	tests := []struct {
		display  int
		expected int
	}{
		{800, 480},
		{1279, 480},
		{1280, 960},
		{1920, 960},
		{3840, 960},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.display), func(t *testing.T) {
			if got := captureWidth(tt.display); got != tt.expected {
				t.Errorf("captureWidth(%d) = %d, want %d", tt.display, got, tt.expected)
			}
		})
	}
}

func TestScrapeOGImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:image" content="https://cdn.example.com/preview.jpg">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	r := NewResolver(NewCache(), NewCache(), srv.Client(), Options{
		DefaultThumbnail: "https://example.com/default.jpg",
	})

	got, err := r.scrapeOGImage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("scrapeOGImage error: %v", err)
	}
	if got != "https://cdn.example.com/preview.jpg" {
		t.Errorf("scrapeOGImage = %q, want og:image content", got)
	}
}

func TestScrapeOGImageMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>no meta</title></head></html>`)
	}))
	defer srv.Close()

	r := NewResolver(NewCache(), NewCache(), srv.Client(), Options{
		DefaultThumbnail: "https://example.com/default.jpg",
	})

	if got, err := r.scrapeOGImage(context.Background(), srv.URL); err == nil {
		t.Errorf("scrapeOGImage = %q, want error", got)
	}
}
