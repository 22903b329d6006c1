package extraction

import "context"

// Extractor defines the interface to the external extraction tool
// This is a port that can be implemented by different infrastructure adapters
type Extractor interface {
	// Extract runs the tool against url with the given options.
	// When opts.SkipDownload is false the produced files land in the output template directory.
	Extract(ctx context.Context, url string, opts Options) (*Info, error)
}

// FileChecker defines the interface for inspecting local scratch files
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool

	// FindByExtension returns the first file in dir with the given extension, or "" if none
	FindByExtension(dir, ext string) string

	// Size returns the size of the file in bytes
	Size(path string) (int64, error)
}
