package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the storage bucket, the cookie
object, the extraction proxy and the HTTP server. Environment variables
still override every value written here.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "config/config.yaml"
	}
	return RunSetupWithPrompter(DefaultPrompter, path, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to yt-audio-vault setup!")
	fmt.Fprintln(output)

	cfg := &config.Config{}

	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}

	if err := promptExtraction(prompter, cfg); err != nil {
		return err
	}

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	bucket, err := prompter.Input("Cloud Storage bucket for audio files?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bucket == "" {
		return fmt.Errorf("bucket name is required")
	}
	cfg.Storage.BucketName = bucket

	credentials, err := prompter.Input("Path to service account credentials (blank for application default)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Storage.CredentialsFile = credentials

	key, err := prompter.Input("Object key of the cookie file in the bucket?", config.DefaultCookiesObjectKey)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if key == "" {
		key = config.DefaultCookiesObjectKey
	}
	cfg.Storage.CookiesObjectKey = key

	return nil
}

func promptExtraction(prompter Prompter, cfg *config.Config) error {
	useProxy, err := prompter.Confirm("Route extraction traffic through a proxy?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if useProxy {
		proxy, err := prompter.Input("Proxy URL?", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if proxy == "" {
			return fmt.Errorf("proxy URL is required")
		}
		cfg.Extraction.ProxyURL = proxy
	}

	pot, err := prompter.Input("Token provider base URL?", extraction.DefaultPOTProviderURL)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if pot == "" {
		pot = extraction.DefaultPOTProviderURL
	}
	cfg.Extraction.POTProviderURL = pot

	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	raw, err := prompter.Input("HTTP port?", strconv.Itoa(config.DefaultPort))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	port := config.DefaultPort
	if raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %q", raw)
		}
	}
	cfg.Server.Port = port

	format, err := prompter.Input("Log format (json or text)?", config.DefaultLogFormat)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if format == "" {
		format = config.DefaultLogFormat
	}
	cfg.Log = config.LogConfig{Level: config.DefaultLogLevel, Format: format}

	return nil
}
