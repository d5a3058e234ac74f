package thumbnail

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"

	// Decoders for the formats thumbnails arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"mediakit/internal/httputil"
	"mediakit/internal/media"
	"mediakit/internal/provider"
)

// decodeBodyLimit bounds how much of a thumbnail is fetched for a
// decode check.
const decodeBodyLimit = 8 * 1024 * 1024

// Preloader warms the thumbnail caches for a batch of videos.
type Preloader struct {
	resolver *Resolver
	client   *http.Client
}

// NewPreloader builds a Preloader on top of an existing Resolver. The
// client is used for thumbnail decode checks.
func NewPreloader(resolver *Resolver, client *http.Client) *Preloader {
	return &Preloader{resolver: resolver, client: client}
}

// Preload eagerly resolves and decodes thumbnails for every video,
// concurrently. Each video settles on its own; one failure never aborts
// its siblings, and the call returns when all attempts have settled.
func (p *Preloader) Preload(ctx context.Context, videos []media.Video) {
	var wg sync.WaitGroup
	for _, v := range videos {
		wg.Add(1)
		go func(v media.Video) {
			defer wg.Done()
			p.warm(ctx, v)
		}(v)
	}
	wg.Wait()
}

func (p *Preloader) warm(ctx context.Context, v media.Video) {
	// A custom thumbnail is only verified. Its failures are never cached
	// under the video URL, so resolution can still happen on demand.
	if v.CustomThumbnail != "" {
		if err := p.decodeCheck(ctx, v.CustomThumbnail); err != nil {
			p.resolver.logger.Debug("custom thumbnail failed decode", "url", v.CustomThumbnail, "error", err)
		}
		return
	}

	if _, ok := p.resolver.cache.Get(v.URL); ok {
		return
	}

	prov, ok := provider.Classify(v.URL)
	if !ok {
		return
	}

	switch prov {
	case media.YouTube, media.GDrive:
		thumb, ok := p.resolver.StaticURL(v.URL, prov)
		if !ok {
			return
		}
		if err := p.decodeCheck(ctx, thumb); err != nil {
			p.resolver.logger.Debug("preload decode failed", "url", v.URL, "error", err)
			thumb = p.resolver.defaultThumb
		}
		p.resolver.cache.Set(v.URL, thumb)

	case media.Vimeo:
		thumb, err := p.resolver.ResolveVimeo(ctx, v.URL)
		if err == nil {
			err = p.decodeCheck(ctx, thumb)
		}
		if err != nil {
			p.resolver.logger.Debug("vimeo preload failed", "url", v.URL, "error", err)
			thumb = p.resolver.defaultThumb
		}
		p.resolver.cache.Set(v.URL, thumb)
	}
}

// decodeCheck fetches an image URL and verifies it decodes.
func (p *Preloader) decodeCheck(ctx context.Context, imageURL string) error {
	resp, err := httputil.Get(ctx, p.client, imageURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, imageURL)
	}

	if _, _, err := image.Decode(io.LimitReader(resp.Body, decodeBodyLimit)); err != nil {
		return fmt.Errorf("decoding %s: %w", imageURL, err)
	}
	return nil
}
