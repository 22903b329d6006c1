package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yt-audio-vault/domain/archive"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// PublicBaseURL is the host serving publicly readable objects
const PublicBaseURL = "https://storage.googleapis.com"

// ObjectService defines the interface for Cloud Storage API operations
// This allows mocking the Cloud Storage API in tests
type ObjectService interface {
	Insert(ctx context.Context, bucket string, object *storage.Object, media io.Reader) (*storage.Object, error)
	List(ctx context.Context, bucket, prefix string) ([]*storage.Object, error)
	Get(ctx context.Context, bucket, name string) (*storage.Object, error)
	Delete(ctx context.Context, bucket, name string) error
	Download(ctx context.Context, bucket, name string) (io.ReadCloser, error)
}

// GoogleStorageService is the production implementation using the Cloud Storage JSON API
type GoogleStorageService struct {
	service *storage.Service
}

// Insert uploads media as object
func (s *GoogleStorageService) Insert(ctx context.Context, bucket string, object *storage.Object, media io.Reader) (*storage.Object, error) {
	return s.service.Objects.Insert(bucket, object).
		Media(media, googleapi.ContentType(object.ContentType)).
		Context(ctx).
		Do()
}

// List returns every object under prefix, following pagination
func (s *GoogleStorageService) List(ctx context.Context, bucket, prefix string) ([]*storage.Object, error) {
	var objects []*storage.Object
	err := s.service.Objects.List(bucket).
		Prefix(prefix).
		Pages(ctx, func(page *storage.Objects) error {
			objects = append(objects, page.Items...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// Get returns object metadata
func (s *GoogleStorageService) Get(ctx context.Context, bucket, name string) (*storage.Object, error) {
	return s.service.Objects.Get(bucket, name).Context(ctx).Do()
}

// Delete removes an object
func (s *GoogleStorageService) Delete(ctx context.Context, bucket, name string) error {
	return s.service.Objects.Delete(bucket, name).Context(ctx).Do()
}

// Download opens the object's content
func (s *GoogleStorageService) Download(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	resp, err := s.service.Objects.Get(bucket, name).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Client implements archive.ObjectStore using Cloud Storage
type Client struct {
	bucket        string
	objectService ObjectService
	baseURL       string
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithObjectService sets a custom object service (for testing)
func WithObjectService(svc ObjectService) ClientOption {
	return func(c *Client) {
		c.objectService = svc
	}
}

// WithPublicBaseURL overrides the host used to build access URLs
func WithPublicBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates a new Cloud Storage client for bucket.
// credentialsPath names a service account JSON file; when empty, Application Default Credentials are used.
func NewClient(ctx context.Context, bucket, credentialsPath string, opts ...ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	c := &Client{
		bucket:  bucket,
		baseURL: PublicBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.objectService == nil {
		svc, err := newGoogleStorageService(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		c.objectService = svc
	}

	return c, nil
}

// newGoogleStorageService creates a production Cloud Storage service
func newGoogleStorageService(ctx context.Context, credentialsPath string) (*GoogleStorageService, error) {
	var creds *google.Credentials
	if credentialsPath != "" {
		b, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read credentials file: %w", err)
		}
		creds, err = google.CredentialsFromJSON(ctx, b, storage.DevstorageReadWriteScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse credentials: %w", err)
		}
	} else {
		var err error
		creds, err = google.FindDefaultCredentials(ctx, storage.DevstorageReadWriteScope)
		if err != nil {
			return nil, fmt.Errorf("unable to find default credentials: %w", err)
		}
	}

	srv, err := storage.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create storage service: %w", err)
	}

	return &GoogleStorageService{service: srv}, nil
}

// Bucket implements archive.ObjectStore
func (c *Client) Bucket() string {
	return c.bucket
}

// Upload implements archive.ObjectStore
func (c *Client) Upload(ctx context.Context, req archive.UploadRequest) (*archive.StoredArtifact, error) {
	f, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.LocalPath, err)
	}
	defer f.Close()

	obj, err := c.objectService.Insert(ctx, c.bucket, &storage.Object{
		Name:        req.Key,
		ContentType: req.ContentType,
		Metadata:    req.Metadata,
	}, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.Key, err)
	}

	artifact := toArtifact(obj)
	return &artifact, nil
}

// List implements archive.ObjectStore
func (c *Client) List(ctx context.Context, prefix string) ([]archive.StoredArtifact, error) {
	objects, err := c.objectService.List(ctx, c.bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	result := make([]archive.StoredArtifact, 0, len(objects))
	for _, obj := range objects {
		result = append(result, toArtifact(obj))
	}
	return result, nil
}

// Exists implements archive.ObjectStore
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.objectService.Get(ctx, c.bucket, key)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}

// Delete implements archive.ObjectStore
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.objectService.Delete(ctx, c.bucket, key)
	if isNotFound(err) {
		return archive.ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Download implements archive.ObjectStore.
// The content is written next to localPath and renamed into place.
func (c *Client) Download(ctx context.Context, key, localPath string) error {
	body, err := c.objectService.Download(ctx, c.bucket, key)
	if isNotFound(err) {
		return archive.ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", localPath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), filepath.Base(localPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", localPath, err)
	}
	return nil
}

// AccessURL implements archive.ObjectStore.
// The URL is public and does not expire; the bucket must grant public read.
func (c *Client) AccessURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, strings.Join(segments, "/"))
}

func toArtifact(obj *storage.Object) archive.StoredArtifact {
	return archive.StoredArtifact{
		Key:      obj.Name,
		Size:     int64(obj.Size),
		Created:  parseTime(obj.TimeCreated),
		Metadata: obj.Metadata,
	}
}

// parseTime parses a Cloud Storage timestamp string
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// Ensure Client implements archive.ObjectStore
var _ archive.ObjectStore = (*Client)(nil)
