// Package thumbnail resolves still-image URLs for hosted videos, caching
// every outcome so repeated lookups never repeat network work.
package thumbnail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"mediakit/internal/embed"
	"mediakit/internal/media"
	"mediakit/internal/provider"
)

// CDN path templates for providers whose thumbnails are derivable
// without a network round-trip.
const (
	youtubeThumbFormat = "https://img.youtube.com/vi/%s/maxresdefault.jpg"
	driveThumbFormat   = "https://drive.google.com/thumbnail?id=%s&sz=w2000"
	pornhubThumbPrefix = "https://ei.phncdn.com/videos/"
	pornhubThumbSuffix = "/original/5.jpg"
	xvideosThumbFormat = "https://img-hw.xvideos-cdn.com/videos/thumbs169lll/%s/%s/%s.1.jpg"
)

// CaptureFunc renders a single video frame as a data URL.
type CaptureFunc func(ctx context.Context, mediaURL string, maxWidth int) (string, error)

// Options configures a Resolver.
type Options struct {
	DefaultThumbnail string
	DisplayWidth     int    // Drives the frame-capture width heuristic
	VimeoBase        string // Overridden in tests; defaults to https://vimeo.com
	Capture          CaptureFunc
	Logger           *slog.Logger
}

// Resolver derives or fetches thumbnail URLs. It owns two caches: the
// general cache holds every outcome (fallbacks included), the Vimeo cache
// only ever holds real Vimeo resolutions.
type Resolver struct {
	client *http.Client
	cache  *Cache
	vimeo  *Cache

	defaultThumb string
	displayWidth int
	vimeoBase    string
	capture      CaptureFunc
	logger       *slog.Logger
}

// NewResolver builds a Resolver around caller-owned caches.
func NewResolver(general, vimeoCache *Cache, client *http.Client, opts Options) *Resolver {
	if opts.VimeoBase == "" {
		opts.VimeoBase = "https://vimeo.com"
	}
	if opts.DisplayWidth <= 0 {
		opts.DisplayWidth = 1920
	}
	if opts.Capture == nil {
		opts.Capture = CaptureFrame
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{
		client:       client,
		cache:        general,
		vimeo:        vimeoCache,
		defaultThumb: opts.DefaultThumbnail,
		displayWidth: opts.DisplayWidth,
		vimeoBase:    opts.VimeoBase,
		capture:      opts.Capture,
		logger:       opts.Logger,
	}
}

// Cache returns the general thumbnail cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// VimeoCache returns the Vimeo-specific cache.
func (r *Resolver) VimeoCache() *Cache { return r.vimeo }

// DefaultThumbnail returns the configured fallback image URL.
func (r *Resolver) DefaultThumbnail() string { return r.defaultThumb }

// StaticURL derives a thumbnail by pure URL transform for providers with a
// CDN convention. Providers that need network work report ok=false.
func (r *Resolver) StaticURL(rawURL string, p media.Provider) (string, bool) {
	switch p {
	case media.YouTube:
		id, err := embed.YouTubeID(rawURL)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf(youtubeThumbFormat, id), true
	case media.GDrive:
		id, err := embed.DriveID(rawURL)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf(driveThumbFormat, id), true
	case media.PornHub:
		key, err := embed.PornHubViewKey(rawURL)
		if err != nil {
			return "", false
		}
		return pornhubThumbPrefix + key + pornhubThumbSuffix, true
	case media.XVideos:
		id, err := embed.XVideosID(rawURL)
		if err != nil || len(id) < 3 {
			return "", false
		}
		return fmt.Sprintf(xvideosThumbFormat, id[:3], id, id), true
	default:
		return "", false
	}
}

// Resolve returns a thumbnail URL for any supported video URL. It never
// fails: every resolution error degrades to the default thumbnail, and the
// outcome is cached either way so retries stay O(1).
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	if cached, ok := r.cache.Get(rawURL); ok {
		return cached
	}

	thumb, err := r.resolve(ctx, rawURL)
	if err != nil || thumb == "" {
		if err != nil {
			r.logger.Debug("thumbnail resolution failed", "url", rawURL, "error", err)
		}
		thumb = r.defaultThumb
	}

	r.cache.Set(rawURL, thumb)
	return thumb
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (string, error) {
	p, ok := provider.Classify(rawURL)
	if !ok {
		return "", fmt.Errorf("unrecognized video url %q", rawURL)
	}

	switch p {
	case media.YouTube, media.GDrive, media.PornHub, media.XVideos:
		thumb, ok := r.StaticURL(rawURL, p)
		if !ok {
			return "", fmt.Errorf("deriving %s thumbnail for %q", p, rawURL)
		}
		return thumb, nil

	case media.Vimeo:
		return r.ResolveVimeo(ctx, rawURL)

	case media.Dropbox, media.Catbox:
		return r.captureThumb(ctx, rawURL, p)

	case media.TeraBox, media.Telegram:
		// No thumbnail endpoint; scrape the page's og:image.
		return r.scrapeOGImage(ctx, rawURL)

	default:
		return "", fmt.Errorf("no thumbnail path for provider %s", p)
	}
}

// captureThumb renders a frame from the direct media file. Dropbox share
// links are rewritten to the direct-content host first.
func (r *Resolver) captureThumb(ctx context.Context, rawURL string, p media.Provider) (string, error) {
	mediaURL := rawURL
	if p == media.Dropbox {
		direct, err := embed.DropboxDirectURL(rawURL)
		if err != nil {
			return "", err
		}
		mediaURL = direct
	}

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	return r.capture(ctx, mediaURL, captureWidth(r.displayWidth))
}

// captureWidth picks the frame width from the display width: small displays
// get 480, everything else 960.
func captureWidth(displayWidth int) int {
	if displayWidth < 1280 {
		return 480
	}
	return 960
}
