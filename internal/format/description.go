// Package format cleans up user-entered video descriptions for display.
package format

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mediakit/internal/media"
)

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)

	// Block-level breaks worth keeping as newlines when markup is stripped.
	breakTags = strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "\n\n", "</div>", "\n",
	)
)

// CleanDescription strips markup from a description, collapses whitespace
// and truncates to maxLen runes with an ellipsis. maxLen <= 0 disables
// truncation.
func CleanDescription(s string, maxLen int) string {
	s = breakTags.Replace(s)

	if strings.ContainsRune(s, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	s = strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))

	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = strings.TrimSpace(string(runes[:maxLen])) + "…"
		}
	}

	return s
}

// ProviderLabel returns the display name for a provider.
func ProviderLabel(p media.Provider) string {
	switch p {
	case media.YouTube:
		return "YouTube"
	case media.Vimeo:
		return "Vimeo"
	case media.XVideos:
		return "XVideos"
	case media.PornHub:
		return "PornHub"
	case media.GDrive:
		return "Google Drive"
	case media.Dropbox:
		return "Dropbox"
	case media.TeraBox:
		return "TeraBox"
	case media.Telegram:
		return "Telegram"
	case media.Catbox:
		return "Catbox"
	default:
		return "Unknown"
	}
}
