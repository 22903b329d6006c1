package archive

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a key does not exist in the store
var ErrObjectNotFound = errors.New("object not found")

// UploadRequest contains the parameters needed to upload a local file
type UploadRequest struct {
	LocalPath   string            // Full path to the local file
	Key         string            // Target object key
	ContentType string            // MIME type of the object
	Metadata    map[string]string // Custom metadata attached to the object
}

// ObjectStore defines the interface for object store operations
// This is a port that can be implemented by different infrastructure adapters
type ObjectStore interface {
	// Bucket returns the name of the bucket the store writes to
	Bucket() string

	// Upload stores a local file under req.Key
	Upload(ctx context.Context, req UploadRequest) (*StoredArtifact, error)

	// List returns every object whose key starts with prefix
	List(ctx context.Context, prefix string) ([]StoredArtifact, error)

	// Exists reports whether key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes key from the store
	Delete(ctx context.Context, key string) error

	// Download copies key into localPath; returns ErrObjectNotFound if absent
	Download(ctx context.Context, key, localPath string) error

	// AccessURL returns the URL callers use to fetch key
	AccessURL(key string) string
}
