// Package provider classifies raw video URLs by hostname.
package provider

import (
	"net/url"
	"strings"

	"mediakit/internal/media"
)

// hostRules is checked in order; the first hostname match wins.
// drive.google.com is matched on the full host so plain google.com
// links stay unclassified.
var hostRules = []struct {
	fragment string
	provider media.Provider
}{
	{"youtube", media.YouTube},
	{"youtu.be", media.YouTube},
	{"vimeo", media.Vimeo},
	{"xvideos", media.XVideos},
	{"pornhub", media.PornHub},
	{"drive.google.com", media.GDrive},
	{"dropbox.com", media.Dropbox},
	{"terabox.com", media.TeraBox},
	{"t.me", media.Telegram},
	{"catbox.moe", media.Catbox},
}

// Classify maps a raw URL to a known video provider by hostname inspection.
// It is a pure function: empty, unparsable or unrecognized URLs report ok=false.
func Classify(rawURL string) (media.Provider, bool) {
	if strings.TrimSpace(rawURL) == "" {
		return media.ProviderUnknown, false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return media.ProviderUnknown, false
	}

	host := strings.ToLower(u.Hostname())
	for _, rule := range hostRules {
		if strings.Contains(host, rule.fragment) {
			return rule.provider, true
		}
	}

	return media.ProviderUnknown, false
}
