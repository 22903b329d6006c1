package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yt-audio-vault/domain/archive"
	"yt-audio-vault/domain/failure"
)

// LibraryEntry is a stored artifact together with its access URL
type LibraryEntry struct {
	archive.StoredArtifact
	AccessURL string
}

// List returns every stored MP3, read fresh from the store
func (s *Service) List(ctx context.Context) ([]LibraryEntry, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	artifacts, err := s.store.List(ctx, archive.AudioPrefix)
	if err != nil {
		return nil, failure.Store(err)
	}

	entries := make([]LibraryEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, LibraryEntry{
			StoredArtifact: a,
			AccessURL:      s.store.AccessURL(a.Key),
		})
	}
	return entries, nil
}

// Delete removes a video's MP3 from the store and returns a confirmation message
func (s *Service) Delete(ctx context.Context, videoID string) (string, error) {
	if err := s.requireStore(); err != nil {
		return "", err
	}

	videoID = strings.TrimSpace(videoID)
	if videoID == "" || strings.Contains(videoID, "/") {
		return "", failure.Validation("Invalid video id")
	}

	key := archive.AudioKey(videoID)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", failure.Store(err)
	}
	if !exists {
		return "", failure.NotFound("File not found")
	}

	// The object can vanish between Exists and Delete
	err = s.store.Delete(ctx, key)
	switch {
	case errors.Is(err, archive.ErrObjectNotFound):
		return "", failure.NotFound("File not found")
	case err != nil:
		return "", failure.Store(err)
	}

	s.log(ctx).Info("artifact deleted", "video_id", videoID, "key", key)
	return fmt.Sprintf("Deleted %s.mp3", videoID), nil
}
