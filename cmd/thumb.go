package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/format"
	"mediakit/internal/httputil"
	"mediakit/internal/provider"
	"mediakit/internal/thumbnail"
	"mediakit/internal/ui"
)

var thumbCmd = &cobra.Command{
	Use:   "thumb <url>...",
	Short: "Resolve thumbnail URLs",
	Long: `Resolve a thumbnail URL for each video URL. Providers with a CDN
convention resolve offline; Vimeo needs one metadata request, and direct
video hosts (Dropbox, Catbox) render a frame with ffmpeg.`,
	Args: cobra.MinimumNArgs(1),
	RunE: thumbRun,
}

func thumbRun(cmd *cobra.Command, args []string) error {
	resolver := thumbnail.NewResolver(
		thumbnail.NewCache(),
		thumbnail.NewCache(),
		httputil.NewClient(),
		thumbnail.Options{
			DefaultThumbnail: cfg.DefaultThumbnail,
			DisplayWidth:     cfg.DisplayWidth,
		},
	)

	type resolved struct {
		Input     string `json:"input"`
		Provider  string `json:"provider"`
		Thumbnail string `json:"thumbnail"`
	}

	var out []resolved
	for _, raw := range args {
		p, _ := provider.Classify(raw)
		out = append(out, resolved{
			Input:     raw,
			Provider:  p.String(),
			Thumbnail: resolver.Resolve(cmd.Context(), raw),
		})
	}

	if flagJSON {
		return printJSON(out)
	}

	for _, r := range out {
		thumb := r.Thumbnail
		if len(thumb) > 96 {
			// Data URLs from frame capture are huge; keep output readable.
			thumb = thumb[:96] + fmt.Sprintf("… (%d bytes)", len(r.Thumbnail))
		}
		p, _ := provider.Classify(r.Input)
		ui.PrintResolved(cmd.OutOrStdout(), format.ProviderLabel(p), thumb)
	}
	return nil
}
