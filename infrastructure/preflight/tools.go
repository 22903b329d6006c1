package preflight

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const verifyTimeout = 5 * time.Second

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Tool is an executable the extraction pipeline shells out to
type Tool struct {
	Name        string
	Path        string
	VersionArgs []string
}

// DefaultTools are yt-dlp, which performs extraction, and ffmpeg, which it uses to transcode MP3
var DefaultTools = []Tool{
	{Name: "yt-dlp", Path: "yt-dlp", VersionArgs: []string{"--version"}},
	{Name: "ffmpeg", Path: "ffmpeg", VersionArgs: []string{"-version"}},
}

// Checker verifies external tools are installed
type Checker struct {
	tools  []Tool
	runner CommandRunner
}

// CheckerOption is a functional option for configuring Checker
type CheckerOption func(*Checker)

// WithTools replaces the checked tool list
func WithTools(tools ...Tool) CheckerOption {
	return func(c *Checker) {
		c.tools = tools
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) CheckerOption {
	return func(c *Checker) {
		c.runner = runner
	}
}

// NewChecker creates a Checker for DefaultTools
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		tools:  DefaultTools,
		runner: &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Verify runs each tool's version command and returns the first output line per tool name.
// Every missing tool is reported in the joined error.
func (c *Checker) Verify(ctx context.Context) (map[string]string, error) {
	versions := make(map[string]string, len(c.tools))
	var errs []error

	for _, tool := range c.tools {
		verifyCtx, cancel := context.WithTimeout(ctx, verifyTimeout)
		out, err := c.runner.Output(verifyCtx, tool.Path, tool.VersionArgs...)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s not found or not executable: %w", tool.Name, err))
			continue
		}
		versions[tool.Name] = firstLine(string(out))
	}

	return versions, errors.Join(errs...)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
