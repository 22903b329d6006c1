//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"yt-audio-vault/application/audio"
	"yt-audio-vault/application/credentials"
	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/extraction"
	"yt-audio-vault/infrastructure/filesystem"
	"yt-audio-vault/infrastructure/httpapi"

	"github.com/cucumber/godog"
)

const cookieKey = "cookies.txt"

type apiContext struct {
	tempDir   string
	bucket    string
	store     *memoryStore
	extractor *fakeExtractor
	handler   http.Handler
	status    int
	body      map[string]any
	raw       []byte
}

var SharedAPIContext = &apiContext{}

func videoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func InitializeAPIScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedAPIContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "api-test-*")
		if err != nil {
			return c, err
		}
		*testCtx = apiContext{tempDir: tempDir, extractor: newFakeExtractor()}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		*testCtx = apiContext{}
		return c, nil
	})

	ctx.Step(`^the service is configured with bucket "([^"]*)"$`, testCtx.theServiceIsConfiguredWithBucket)
	ctx.Step(`^the service has no bucket configured$`, testCtx.theServiceHasNoBucketConfigured)
	ctx.Step(`^the video "([^"]*)" titled "([^"]*)" is available$`, testCtx.theVideoTitledIsAvailable)
	ctx.Step(`^the bucket contains a cookie file$`, testCtx.theBucketContainsACookieFile)
	ctx.Step(`^the cookie file is removed from the bucket$`, testCtx.theCookieFileIsRemovedFromTheBucket)
	ctx.Step(`^the bucket already holds audio for "([^"]*)"$`, testCtx.theBucketAlreadyHoldsAudioFor)
	ctx.Step(`^I POST "([^"]*)" with body:$`, testCtx.iPOSTWithBody)
	ctx.Step(`^I send a (GET|POST|DELETE) request to "([^"]*)"$`, testCtx.iSendARequestTo)
	ctx.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseFieldShouldBe)
	ctx.Step(`^the response should contain (\d+) results$`, testCtx.theResponseShouldContainResults)
	ctx.Step(`^result (\d+) should be a success for "([^"]*)"$`, testCtx.resultShouldBeASuccessFor)
	ctx.Step(`^result (\d+) should be a failure for "([^"]*)"$`, testCtx.resultShouldBeAFailureFor)
	ctx.Step(`^the bucket should contain "([^"]*)"$`, testCtx.theBucketShouldContain)
	ctx.Step(`^the bucket should not contain "([^"]*)"$`, testCtx.theBucketShouldNotContain)
	ctx.Step(`^the extraction should use the (cookie|token provider) strategy$`, testCtx.theExtractionShouldUseTheStrategy)
}

func (a *apiContext) theServiceIsConfiguredWithBucket(bucket string) error {
	a.bucket = bucket
	a.store = newMemoryStore(bucket)
	return nil
}

func (a *apiContext) theServiceHasNoBucketConfigured() error {
	a.bucket = ""
	a.store = nil
	return nil
}

func (a *apiContext) theVideoTitledIsAvailable(id, title string) error {
	a.extractor.catalog[videoURL(id)] = extraction.Info{
		ID:       id,
		Title:    title,
		Channel:  "Test Channel",
		Duration: 90,
		Formats: []extraction.Format{
			{FormatID: "140", Ext: "m4a", Resolution: "audio only", ACodec: "mp4a.40.2", VCodec: "none"},
		},
	}
	return nil
}

func (a *apiContext) theBucketContainsACookieFile() error {
	if a.store == nil {
		return fmt.Errorf("no bucket configured")
	}
	a.store.put(cookieKey, []byte("# Netscape HTTP Cookie File\n"))
	return nil
}

func (a *apiContext) theCookieFileIsRemovedFromTheBucket() error {
	if a.store == nil {
		return fmt.Errorf("no bucket configured")
	}
	a.store.remove(cookieKey)
	return nil
}

func (a *apiContext) theBucketAlreadyHoldsAudioFor(id string) error {
	if a.store == nil {
		return fmt.Errorf("no bucket configured")
	}
	a.store.put(archive.AudioKey(id), []byte("ID3 existing"))
	return nil
}

// server builds the API on first use so Given steps can shape the collaborators
func (a *apiContext) server() http.Handler {
	if a.handler != nil {
		return a.handler
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	files := filesystem.NewChecker()

	var store archive.ObjectStore
	if a.store != nil {
		store = a.store
	}

	cookies := credentials.NewMaterializer(store, cookieKey, filepath.Join(a.tempDir, "cookies.txt"), files, credentials.WithLogger(logger))
	settings := extraction.Settings{POTProviderURL: extraction.DefaultPOTProviderURL}
	svc := audio.NewService(a.extractor, store, cookies, files, settings,
		audio.WithScratchDir(a.tempDir),
		audio.WithLogger(logger),
	)

	a.handler = httpapi.NewServer(svc, cookies, httpapi.HealthInfo{
		BucketConfigured: a.bucket != "",
		POTProviderURL:   settings.POTProviderURL,
	}, httpapi.WithLogger(logger)).Handler()
	return a.handler
}

func (a *apiContext) do(method, path, body string) error {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.server().ServeHTTP(rec, req)

	a.status = rec.Code
	a.raw = rec.Body.Bytes()
	a.body = nil
	if err := json.Unmarshal(a.raw, &a.body); err != nil {
		return fmt.Errorf("response is not a JSON object: %s", string(a.raw))
	}
	return nil
}

func (a *apiContext) iPOSTWithBody(path string, body *godog.DocString) error {
	return a.do(http.MethodPost, path, body.Content)
}

func (a *apiContext) iSendARequestTo(method, path string) error {
	return a.do(method, path, "")
}

func (a *apiContext) theResponseStatusShouldBe(status int) error {
	if a.status != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, a.status, string(a.raw))
	}
	return nil
}

func (a *apiContext) theResponseFieldShouldBe(field, expected string) error {
	value, ok := a.body[field]
	if !ok {
		return fmt.Errorf("field %q missing from %s", field, string(a.raw))
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("expected %s %q, got %q", field, expected, actual)
	}
	return nil
}

func (a *apiContext) results() ([]map[string]any, error) {
	raw, ok := a.body["results"].([]any)
	if !ok {
		return nil, fmt.Errorf("no results in %s", string(a.raw))
	}
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("result is not an object: %v", r)
		}
		out = append(out, m)
	}
	return out, nil
}

func (a *apiContext) theResponseShouldContainResults(count int) error {
	results, err := a.results()
	if err != nil {
		return err
	}
	if len(results) != count {
		return fmt.Errorf("expected %d results, got %d", count, len(results))
	}
	return nil
}

func (a *apiContext) resultAt(index int) (map[string]any, error) {
	results, err := a.results()
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(results) {
		return nil, fmt.Errorf("result %d out of range (%d results)", index, len(results))
	}
	return results[index-1], nil
}

func (a *apiContext) resultShouldBeASuccessFor(index int, id string) error {
	r, err := a.resultAt(index)
	if err != nil {
		return err
	}
	if r["success"] != true || r["video_id"] != id {
		return fmt.Errorf("expected success for %s, got %v", id, r)
	}
	return nil
}

func (a *apiContext) resultShouldBeAFailureFor(index int, url string) error {
	r, err := a.resultAt(index)
	if err != nil {
		return err
	}
	if r["url"] != url || r["error"] == nil {
		return fmt.Errorf("expected {url, error} for %s, got %v", url, r)
	}
	return nil
}

func (a *apiContext) theBucketShouldContain(key string) error {
	exists, _ := a.store.Exists(context.Background(), key)
	if !exists {
		return fmt.Errorf("expected %s in bucket", key)
	}
	return nil
}

func (a *apiContext) theBucketShouldNotContain(key string) error {
	exists, _ := a.store.Exists(context.Background(), key)
	if exists {
		return fmt.Errorf("expected %s to be absent from bucket", key)
	}
	return nil
}

func (a *apiContext) theExtractionShouldUseTheStrategy(name string) error {
	opts, ok := a.extractor.lastOptions()
	if !ok {
		return fmt.Errorf("extraction was never invoked")
	}

	want := extraction.StrategyTokenProviderFallback
	if name == "cookie" {
		want = extraction.StrategyCookieAuthenticated
	}
	if opts.Strategy != want {
		return fmt.Errorf("expected %s strategy, got %s", want, opts.Strategy)
	}
	if (opts.ExtractorArgs != "") == (want == extraction.StrategyCookieAuthenticated) {
		return fmt.Errorf("token provider argument %q inconsistent with %s strategy", opts.ExtractorArgs, want)
	}
	return nil
}
