package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// CookieRefresher forces a re-fetch of the cookie file
type CookieRefresher interface {
	Refresh(ctx context.Context) bool
}

var refreshCookiesCmd = &cobra.Command{
	Use:   "refresh-cookies",
	Short: "Check that the cookie file can be fetched from the bucket",
	Long: `Download the configured cookie object from the bucket to the local cookie
path and report whether it exists.

Example:
  COOKIES_OBJECT_KEY=auth/cookies.txt yt-audio-vault refresh-cookies`,
	RunE: runRefreshCookies,
}

func init() {
	rootCmd.AddCommand(refreshCookiesCmd)
}

func runRefreshCookies(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if !cfg.BucketConfigured() {
		return fmt.Errorf("BUCKET_NAME not configured")
	}

	deps, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	return RunRefreshCookiesWithDependencies(cmd.Context(), deps.cookies, cfg.Storage.CookiesObjectKey, DefaultOutput)
}

// RunRefreshCookiesWithDependencies runs the refresh-cookies command with injected dependencies (for testing)
func RunRefreshCookiesWithDependencies(ctx context.Context, refresher CookieRefresher, objectKey string, output OutputWriter) error {
	if !refresher.Refresh(ctx) {
		return fmt.Errorf("cookie object %q not found in bucket", objectKey)
	}

	fmt.Fprintf(output, "Cookies refreshed from %s\n", objectKey)
	return nil
}
