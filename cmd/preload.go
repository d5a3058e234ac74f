package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediakit/internal/httputil"
	"mediakit/internal/media"
	"mediakit/internal/thumbnail"
)

var preloadCmd = &cobra.Command{
	Use:   "preload <url[,thumbnail]>...",
	Short: "Warm the thumbnail cache for a set of videos",
	Long: `Resolve and decode thumbnails for every given video concurrently.
Each argument is a video URL, optionally followed by a comma and a custom
thumbnail URL to verify instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: preloadRun,
}

func preloadRun(cmd *cobra.Command, args []string) error {
	videos := make([]media.Video, 0, len(args))
	for _, arg := range args {
		url, custom, _ := strings.Cut(arg, ",")
		videos = append(videos, media.Video{URL: url, CustomThumbnail: custom})
	}

	client := httputil.NewClient()
	resolver := thumbnail.NewResolver(
		thumbnail.NewCache(),
		thumbnail.NewCache(),
		client,
		thumbnail.Options{
			DefaultThumbnail: cfg.DefaultThumbnail,
			DisplayWidth:     cfg.DisplayWidth,
		},
	)

	preloader := thumbnail.NewPreloader(resolver, client)
	preloader.Preload(cmd.Context(), videos)

	fmt.Fprintf(cmd.OutOrStdout(), "preloaded %d of %d videos\n", resolver.Cache().Len(), len(videos))
	return nil
}
