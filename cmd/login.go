package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize Cloud Storage access as a Google user",
	Long: `Run the browser OAuth flow and cache the token at the configured
oauth_token_file. Later commands reuse and refresh the cached token.

The credentials_file must be an OAuth client (installed app) JSON.

Example:
  GOOGLE_CREDENTIALS_FILE=client.json GOOGLE_OAUTH_TOKEN_FILE=token.json yt-audio-vault login`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if !cfg.BucketConfigured() {
		return fmt.Errorf("BUCKET_NAME not configured")
	}
	if !cfg.UsesOAuth() || cfg.Storage.CredentialsFile == "" {
		return fmt.Errorf("login requires credentials_file and oauth_token_file")
	}

	if _, err := newStorageClient(cmd.Context(), cfg); err != nil {
		return err
	}

	fmt.Fprintf(DefaultOutput, "Token cached at %s\n", cfg.Storage.OAuthTokenFile)
	return nil
}
