package cmd

import (
	"fmt"
	"os"

	"yt-audio-vault/infrastructure/config"

	"github.com/spf13/cobra"
)

// OutputWriter receives human-readable command output
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for commands
var DefaultOutput OutputWriter = os.Stdout

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "yt-audio-vault",
	Short: "Download video audio as MP3 into a Google Cloud Storage bucket",
	Long: `yt-audio-vault extracts audio from online videos and archives it:

  - Download a video's audio with yt-dlp and convert it to MP3
  - Upload the MP3 to a Cloud Storage bucket with metadata
  - List and delete archived audio
  - Authenticate extraction with a cookie file kept in the bucket

Example:
  yt-audio-vault serve
  yt-audio-vault fetch "https://www.youtube.com/watch?v=VIDEO_ID"`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// The file is optional; the environment alone is a complete configuration
	cfg, cfgErr = config.Load(cfgFile)
}

// GetConfig returns the loaded configuration or the error that prevented loading it
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
