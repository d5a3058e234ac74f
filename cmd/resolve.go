package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/embed"
	"mediakit/internal/format"
	"mediakit/internal/media"
	"mediakit/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>...",
	Short: "Derive embeddable player URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  resolveRun,
}

func resolveRun(cmd *cobra.Command, args []string) error {
	type resolved struct {
		Input    string `json:"input"`
		Provider string `json:"provider"`
		EmbedURL string `json:"embed_url"`
	}

	var out []resolved
	var failed bool

	for _, raw := range args {
		result, err := embed.Resolve(raw)
		if err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", raw, err)
			continue
		}
		out = append(out, resolved{
			Input:    raw,
			Provider: result.Provider.String(),
			EmbedURL: result.URL,
		})
	}

	if flagJSON {
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, r := range out {
			p, _ := media.ParseProvider(r.Provider)
			ui.PrintResolved(cmd.OutOrStdout(), format.ProviderLabel(p), r.EmbedURL)
		}
	}

	if failed {
		return fmt.Errorf("some URLs could not be resolved")
	}
	return nil
}
