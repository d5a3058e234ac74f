// Package media defines shared types for the mediakit application.
package media

// Provider identifies one of the supported external video hosts.
type Provider int

const (
	ProviderUnknown Provider = iota
	YouTube
	Vimeo
	XVideos
	PornHub
	GDrive
	Dropbox
	TeraBox
	Telegram
	Catbox
)

func (p Provider) String() string {
	switch p {
	case YouTube:
		return "youtube"
	case Vimeo:
		return "vimeo"
	case XVideos:
		return "xvideos"
	case PornHub:
		return "pornhub"
	case GDrive:
		return "gdrive"
	case Dropbox:
		return "dropbox"
	case TeraBox:
		return "terabox"
	case Telegram:
		return "telegram"
	case Catbox:
		return "catbox"
	default:
		return "unknown"
	}
}

// ParseProvider maps a provider name back to its enum value.
func ParseProvider(s string) (Provider, bool) {
	for p := YouTube; p <= Catbox; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return ProviderUnknown, false
}

// EmbedResult pairs a classified provider with its player URL.
type EmbedResult struct {
	Provider Provider
	URL      string
}

// Video is one entry in a preload batch.
type Video struct {
	URL             string // Page URL on the hosting provider
	CustomThumbnail string // Optional user-supplied thumbnail URL
}

// UploadStatus tracks the lifecycle of a single file in a batch upload.
type UploadStatus int

const (
	StatusUploading UploadStatus = iota
	StatusCompleted
	StatusError
)

func (s UploadStatus) String() string {
	switch s {
	case StatusUploading:
		return "uploading"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// UploadProgress is reported once per status transition during a batch upload.
type UploadProgress struct {
	Index   int // Position of the file in the input slice
	Percent int
	Status  UploadStatus
	Err     error // Set when Status == StatusError
}
