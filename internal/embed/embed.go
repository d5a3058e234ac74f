// Package embed derives provider-specific embeddable player URLs
// from raw video page URLs.
package embed

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mediakit/internal/media"
	"mediakit/internal/provider"
)

var (
	// ErrUnsupported means the URL does not belong to any known provider.
	ErrUnsupported = errors.New("unsupported provider")

	// ErrInvalidURL means the URL is empty or unparsable.
	ErrInvalidURL = errors.New("invalid url")

	// ErrMissingID means a provider-required URL component is absent.
	ErrMissingID = errors.New("missing video id")
)

// Fixed Vimeo player parameters. These are a contract with the player,
// not tunables.
const vimeoPlayerParams = "autopause=0&badge=0&byline=0&controls=1&loop=0&portrait=0&title=0"

// corsProxy fronts catbox files that lack CORS headers.
const corsProxy = "https://corsproxy.io/?"

var (
	vimeoPathRe   = regexp.MustCompile(`vimeo\.com/(\d+)(?:/([a-zA-Z0-9]+))?`)
	xvideosPathRe = regexp.MustCompile(`video[._]([^/]+)`)
	drivePathRe   = regexp.MustCompile(`/d/([^/]+)`)
)

// Resolve derives the embeddable player URL for a raw video URL.
// It is pure and idempotent; all failures are typed errors.
func Resolve(rawURL string) (media.EmbedResult, error) {
	p, ok := provider.Classify(rawURL)
	if !ok {
		if strings.TrimSpace(rawURL) == "" {
			return media.EmbedResult{}, ErrInvalidURL
		}
		return media.EmbedResult{}, ErrUnsupported
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return media.EmbedResult{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var embedURL string
	switch p {
	case media.YouTube:
		embedURL, err = youTubeEmbed(u)
	case media.Vimeo:
		embedURL, err = vimeoEmbed(rawURL)
	case media.XVideos:
		embedURL, err = xvideosEmbed(u)
	case media.PornHub:
		embedURL, err = pornhubEmbed(u)
	case media.GDrive:
		embedURL, err = driveEmbed(u)
	case media.Dropbox:
		embedURL, err = DropboxDirectURL(rawURL)
	case media.TeraBox:
		embedURL = rawURL
	case media.Telegram:
		embedURL, err = telegramEmbed(u)
	case media.Catbox:
		embedURL = corsProxy + url.QueryEscape(rawURL)
	default:
		return media.EmbedResult{}, ErrUnsupported
	}
	if err != nil {
		return media.EmbedResult{}, err
	}

	return media.EmbedResult{Provider: p, URL: embedURL}, nil
}

// YouTubeID extracts the video id from a YouTube URL. Short youtu.be links
// carry the id in the path, watch links in the v parameter; anything else
// falls back to the last path segment.
func YouTubeID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var id string
	if strings.Contains(strings.ToLower(u.Hostname()), "youtu.be") {
		id = firstSegment(u.Path)
	} else if v := u.Query().Get("v"); v != "" {
		id = v
	} else {
		id = lastSegment(u.Path)
	}

	if id == "" {
		return "", fmt.Errorf("%w: youtube url %q", ErrMissingID, rawURL)
	}
	return id, nil
}

func youTubeEmbed(u *url.URL) (string, error) {
	id, err := YouTubeID(u.String())
	if err != nil {
		return "", err
	}
	return "https://www.youtube.com/embed/" + id, nil
}

// VimeoID extracts the numeric id and optional privacy hash from a Vimeo URL.
func VimeoID(rawURL string) (id, hash string, err error) {
	m := vimeoPathRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", fmt.Errorf("%w: vimeo url %q", ErrMissingID, rawURL)
	}
	return m[1], m[2], nil
}

func vimeoEmbed(rawURL string) (string, error) {
	id, hash, err := VimeoID(rawURL)
	if err != nil {
		return "", err
	}
	if hash != "" {
		return fmt.Sprintf("https://player.vimeo.com/video/%s?h=%s&%s", id, hash, vimeoPlayerParams), nil
	}
	return fmt.Sprintf("https://player.vimeo.com/video/%s?%s", id, vimeoPlayerParams), nil
}

// XVideosID extracts the id from a path segment shaped like video.<id> or
// video_<id>, trimmed at the first slash.
func XVideosID(rawURL string) (string, error) {
	m := xvideosPathRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: xvideos url %q", ErrMissingID, rawURL)
	}
	id := m[1]
	if i := strings.Index(id, "/"); i != -1 {
		id = id[:i]
	}
	return id, nil
}

func xvideosEmbed(u *url.URL) (string, error) {
	id, err := XVideosID(u.Path)
	if err != nil {
		return "", err
	}
	return "https://www.xvideos.com/embedframe/" + id, nil
}

// PornHubViewKey extracts the required viewkey query parameter.
func PornHubViewKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	key := u.Query().Get("viewkey")
	if key == "" {
		return "", fmt.Errorf("%w: pornhub url without viewkey", ErrMissingID)
	}
	return key, nil
}

func pornhubEmbed(u *url.URL) (string, error) {
	key, err := PornHubViewKey(u.String())
	if err != nil {
		return "", err
	}
	return "https://www.pornhub.com/embed/" + key, nil
}

// DriveID extracts the file id from a /d/<id>/ path segment.
func DriveID(rawURL string) (string, error) {
	m := drivePathRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: drive url %q", ErrMissingID, rawURL)
	}
	return m[1], nil
}

func driveEmbed(u *url.URL) (string, error) {
	id, err := DriveID(u.Path)
	if err != nil {
		return "", err
	}
	return "https://drive.google.com/file/d/" + id + "/preview", nil
}

// DropboxDirectURL rewrites a share link to the direct-content host.
// dl flags and any trailing extra parameters are dropped; rlkey is kept
// and raw=1 appended. The result doubles as the embed URL.
func DropboxDirectURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Path == "" || u.Path == "/" {
		return "", fmt.Errorf("%w: dropbox url without path", ErrMissingID)
	}

	u.Host = "dl.dropboxusercontent.com"

	// Query is rebuilt by hand to keep rlkey ahead of raw=1.
	query := ""
	if rlkey := u.Query().Get("rlkey"); rlkey != "" {
		query = "rlkey=" + url.QueryEscape(rlkey) + "&"
	}
	u.RawQuery = query + "raw=1"

	return u.String(), nil
}

func telegramEmbed(u *url.URL) (string, error) {
	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return "", fmt.Errorf("%w: telegram url needs channel and message id", ErrMissingID)
	}
	return "https://t.me/" + segments[0] + "/" + segments[1], nil
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func firstSegment(p string) string {
	segments := splitPath(p)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

func lastSegment(p string) string {
	segments := splitPath(p)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
