package thumbnail

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"mediakit/internal/httputil"
)

// scrapeBodyLimit bounds how much page HTML is parsed for a meta tag.
const scrapeBodyLimit = 2 * 1024 * 1024

// scrapeOGImage fetches the provider page and pulls the og:image (or
// twitter:image) meta tag. Used for hosts with no thumbnail endpoint.
func (r *Resolver) scrapeOGImage(ctx context.Context, pageURL string) (string, error) {
	resp, err := httputil.Get(ctx, r.client, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, scrapeBodyLimit))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
			return content, nil
		}
	}

	return "", fmt.Errorf("no og:image on %s", pageURL)
}
