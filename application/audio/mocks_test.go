package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
)

// --- Mock implementations for testing ---

// mockFiles implements extraction.FileChecker for testing
type mockFiles struct {
	existing map[string]int64
}

func (m *mockFiles) Exists(path string) bool {
	_, ok := m.existing[path]
	return ok
}

func (m *mockFiles) FindByExtension(dir, ext string) string {
	var matches []string
	for path := range m.existing {
		if filepath.Dir(path) == dir && filepath.Ext(path) == ext {
			matches = append(matches, path)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

func (m *mockFiles) Size(path string) (int64, error) {
	size, ok := m.existing[path]
	if !ok {
		return 0, errors.New("file does not exist")
	}
	return size, nil
}

// mockExtractor implements extraction.Extractor for testing.
// On download it registers <outputDir>/<outputName> with the file mock.
type mockExtractor struct {
	infos      map[string]*extraction.Info
	errs       map[string]error
	files      *mockFiles
	outputName func(id string) string
	calls      []extractCall
}

type extractCall struct {
	url  string
	opts extraction.Options
}

func (m *mockExtractor) Extract(ctx context.Context, url string, opts extraction.Options) (*extraction.Info, error) {
	m.calls = append(m.calls, extractCall{url: url, opts: opts})
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	info, ok := m.infos[url]
	if !ok {
		return nil, errors.New("ERROR: unsupported URL")
	}
	if !opts.SkipDownload && m.outputName != nil {
		if name := m.outputName(info.ID); name != "" {
			dir := strings.TrimSuffix(opts.OutputTemplate, "/%(id)s.%(ext)s")
			m.files.existing[filepath.Join(dir, name)] = 4096
		}
	}
	copied := *info
	return &copied, nil
}

// mockStore implements archive.ObjectStore for testing
type mockStore struct {
	bucket    string
	objects   map[string]archive.StoredArtifact
	uploads   []archive.UploadRequest
	uploadErr error
	listErr   error
	existsErr error
	deleteErr error
}

func newMockStore(bucket string) *mockStore {
	return &mockStore{bucket: bucket, objects: make(map[string]archive.StoredArtifact)}
}

func (m *mockStore) Bucket() string { return m.bucket }

func (m *mockStore) Upload(ctx context.Context, req archive.UploadRequest) (*archive.StoredArtifact, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, req)
	a := archive.StoredArtifact{Key: req.Key, Size: 4096, Metadata: req.Metadata}
	m.objects[req.Key] = a
	return &a, nil
}

func (m *mockStore) List(ctx context.Context, prefix string) ([]archive.StoredArtifact, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []archive.StoredArtifact
	for key, a := range m.objects {
		if strings.HasPrefix(key, prefix) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *mockStore) Download(ctx context.Context, key, localPath string) error {
	return archive.ErrObjectNotFound
}

func (m *mockStore) AccessURL(key string) string {
	return "https://storage.googleapis.com/" + m.bucket + "/" + key
}

// mockCookies implements CookieSource for testing
type mockCookies struct {
	path string
}

func (m *mockCookies) Ensure(ctx context.Context) string { return m.path }

// mockRecorder implements DownloadRecorder for testing
type mockRecorder struct {
	outcomes []string
}

func (m *mockRecorder) ObserveDownload(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

type testDeps struct {
	extractor *mockExtractor
	store     *mockStore
	cookies   *mockCookies
	files     *mockFiles
	recorder  *mockRecorder
}

func newTestDeps() *testDeps {
	files := &mockFiles{existing: make(map[string]int64)}
	return &testDeps{
		extractor: &mockExtractor{
			infos:      make(map[string]*extraction.Info),
			errs:       make(map[string]error),
			files:      files,
			outputName: func(id string) string { return id + ".mp3" },
		},
		store:    newMockStore("my-bucket"),
		cookies:  &mockCookies{},
		files:    files,
		recorder: &mockRecorder{},
	}
}

func (d *testDeps) service(t *testing.T) *Service {
	t.Helper()
	return NewService(d.extractor, d.store, d.cookies, d.files,
		extraction.Settings{POTProviderURL: "http://127.0.0.1:4416"},
		WithScratchDir(t.TempDir()),
		WithRecorder(d.recorder),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}
