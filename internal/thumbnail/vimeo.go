package thumbnail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mediakit/internal/embed"
	"mediakit/internal/httputil"
)

// oembedResponse is the shape of the Vimeo oEmbed endpoint reply.
type oembedResponse struct {
	ThumbnailURL string `json:"thumbnail_url"`
}

// apiV2Video is one element of the Vimeo API v2 JSON array.
type apiV2Video struct {
	ThumbnailLarge string `json:"thumbnail_large"`
}

// ResolveVimeo fetches the thumbnail for a Vimeo video, consulting the
// Vimeo cache first. Private (hashed) videos go through oEmbed, public ones
// through the API v2 endpoint. Successful lookups are written back to the
// Vimeo cache; failures are not.
func (r *Resolver) ResolveVimeo(ctx context.Context, rawURL string) (string, error) {
	if cached, ok := r.vimeo.Get(rawURL); ok {
		return cached, nil
	}

	id, hash, err := embed.VimeoID(rawURL)
	if err != nil {
		return "", err
	}

	var endpoint string
	if hash != "" {
		videoURL := fmt.Sprintf("https://vimeo.com/%s/%s", id, hash)
		endpoint = r.vimeoBase + "/api/oembed.json?url=" + url.QueryEscape(videoURL)
	} else {
		endpoint = r.vimeoBase + "/api/v2/video/" + id + ".json"
	}

	body, err := httputil.GetJSON(ctx, r.client, endpoint)
	if err != nil {
		return "", fmt.Errorf("fetching vimeo metadata: %w", err)
	}

	var thumb string
	if hash != "" {
		var resp oembedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("parsing oembed response: %w", err)
		}
		thumb = resp.ThumbnailURL
	} else {
		var videos []apiV2Video
		if err := json.Unmarshal(body, &videos); err != nil {
			return "", fmt.Errorf("parsing api v2 response: %w", err)
		}
		if len(videos) > 0 {
			thumb = videos[0].ThumbnailLarge
		}
	}

	if thumb == "" {
		return "", fmt.Errorf("vimeo metadata for %s has no thumbnail", id)
	}

	// Vimeo serves 640px by default; the 1920px rendition exists at the
	// same path.
	thumb = strings.Replace(thumb, "_640", "_1920", 1)

	r.vimeo.Set(rawURL, thumb)
	return thumb, nil
}
