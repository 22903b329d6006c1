package cmd

import (
	"context"
	"fmt"

	"yt-audio-vault/application/audio"

	"github.com/spf13/cobra"
)

// Downloader downloads one URL into the archive
type Downloader interface {
	Download(ctx context.Context, url string) (*audio.DownloadResult, error)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download one video's audio into the bucket",
	Long: `Download a video's audio, convert it to MP3 and upload it to the configured
bucket without starting the HTTP API.

Example:
  yt-audio-vault fetch "https://www.youtube.com/watch?v=VIDEO_ID"`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	deps, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := verifyTools(cmd.Context(), deps.logger); err != nil {
		return err
	}

	return RunFetchWithDependencies(cmd.Context(), deps.audio, args[0], DefaultOutput)
}

// RunFetchWithDependencies runs the fetch command with injected dependencies (for testing)
func RunFetchWithDependencies(ctx context.Context, downloader Downloader, url string, output OutputWriter) error {
	fmt.Fprintf(output, "Downloading audio from %s...\n", url)

	result, err := downloader.Download(ctx, url)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Uploaded %q by %s (%.0fs, %d bytes)\n", result.Title, result.Channel, result.Duration, result.FileSize)
	fmt.Fprintf(output, "  Stored at: %s\n", result.StorePath)
	fmt.Fprintf(output, "  URL: %s\n", result.AccessURL)
	return nil
}
