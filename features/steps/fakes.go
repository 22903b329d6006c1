//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
)

// memoryStore is an in-memory archive.ObjectStore
type memoryStore struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]storedObject
}

type storedObject struct {
	data     []byte
	metadata map[string]string
	created  time.Time
}

func newMemoryStore(bucket string) *memoryStore {
	return &memoryStore{bucket: bucket, objects: make(map[string]storedObject)}
}

func (s *memoryStore) put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{data: data, created: time.Now().UTC()}
}

func (s *memoryStore) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
}

func (s *memoryStore) Bucket() string { return s.bucket }

func (s *memoryStore) Upload(_ context.Context, req archive.UploadRequest) (*archive.StoredArtifact, error) {
	data, err := os.ReadFile(req.LocalPath)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := storedObject{data: data, metadata: req.Metadata, created: time.Now().UTC()}
	s.objects[req.Key] = obj
	return &archive.StoredArtifact{Key: req.Key, Size: int64(len(data)), Created: obj.created, Metadata: req.Metadata}, nil
}

func (s *memoryStore) List(_ context.Context, prefix string) ([]archive.StoredArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []archive.StoredArtifact
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, archive.StoredArtifact{Key: key, Size: int64(len(obj.data)), Created: obj.created, Metadata: obj.metadata})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return archive.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *memoryStore) Download(_ context.Context, key, localPath string) error {
	s.mu.Lock()
	obj, ok := s.objects[key]
	s.mu.Unlock()
	if !ok {
		return archive.ErrObjectNotFound
	}
	return os.WriteFile(localPath, obj.data, 0600)
}

func (s *memoryStore) AccessURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

// fakeExtractor answers from a catalog of known videos and writes an MP3 into the output template
type fakeExtractor struct {
	mu      sync.Mutex
	catalog map[string]extraction.Info
	calls   []extraction.Options
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{catalog: make(map[string]extraction.Info)}
}

func (e *fakeExtractor) Extract(_ context.Context, url string, opts extraction.Options) (*extraction.Info, error) {
	e.mu.Lock()
	e.calls = append(e.calls, opts)
	info, ok := e.catalog[url]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("ERROR: [youtube] Video unavailable")
	}

	if !opts.SkipDownload && opts.OutputTemplate != "" {
		path := strings.NewReplacer("%(id)s", info.ID, "%(ext)s", "mp3").Replace(opts.OutputTemplate)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte("ID3 fake audio for "+info.ID), 0644); err != nil {
			return nil, err
		}
	}
	return &info, nil
}

func (e *fakeExtractor) lastOptions() (extraction.Options, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.calls) == 0 {
		return extraction.Options{}, false
	}
	return e.calls[len(e.calls)-1], true
}
