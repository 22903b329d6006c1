package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"yt-audio-vault/domain/extraction"
)

// Checker implements extraction.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if a regular file exists at path
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindByExtension returns the lexically first file in dir with extension ext
func (c *Checker) FindByExtension(dir, ext string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) == 0 {
		return ""
	}

	sort.Strings(matches)
	return filepath.Join(dir, matches[0])
}

// Size returns the size of the file at path
func (c *Checker) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Ensure Checker implements extraction.FileChecker
var _ extraction.FileChecker = (*Checker)(nil)
