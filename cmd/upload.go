package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mediakit/internal/httputil"
	"mediakit/internal/media"
	"mediakit/internal/ui"
	"mediakit/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Compress and upload images to the image host",
	Args:  cobra.MinimumNArgs(1),
	RunE:  uploadRun,
}

func uploadRun(cmd *cobra.Command, args []string) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key configured; set api_key in the config file or pass --api-key")
	}

	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
	}

	client := upload.NewClient(cfg.APIKey, cfg.BaseURL, cfg.MaxUploadBytes(), httputil.NewClient(), nil)

	var results []string
	if ui.IsTerminal() && !flagJSON {
		model := ui.NewBatchModel(args)
		prog := tea.NewProgram(model)

		go func() {
			res := client.UploadBatch(cmd.Context(), args, cfg.BatchSize, func(p media.UploadProgress) {
				prog.Send(ui.ProgressMsg(p))
			})
			prog.Send(ui.DoneMsg{Results: res})
		}()

		if _, err := prog.Run(); err != nil {
			return fmt.Errorf("progress display failed: %w", err)
		}
		results = model.Results()
	} else {
		results = client.UploadBatch(cmd.Context(), args, cfg.BatchSize, func(p media.UploadProgress) {
			ui.PlainProgress(cmd.ErrOrStderr(), args, p)
		})
	}

	if flagJSON {
		type uploaded struct {
			File string `json:"file"`
			URL  string `json:"url,omitempty"`
		}
		out := make([]uploaded, len(args))
		for i := range args {
			out[i] = uploaded{File: args[i], URL: results[i]}
		}
		return printJSON(out)
	}

	var failures int
	for i, url := range results {
		if url == "" {
			failures++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", args[i], url)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d uploads failed", failures, len(args))
	}
	return nil
}
