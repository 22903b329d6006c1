package archive

import (
	"fmt"
	"strconv"
	"time"
)

// AudioPrefix is the key prefix under which all MP3 artifacts are stored
const AudioPrefix = "audio/"

// MimeTypeMP3 is the content type of stored artifacts
const MimeTypeMP3 = "audio/mpeg"

// Metadata keys attached to each stored artifact
const (
	MetaTitle     = "title"
	MetaChannel   = "channel"
	MetaDuration  = "duration"
	MetaSourceURL = "source_url"
)

// StoredArtifact represents an object in the store
type StoredArtifact struct {
	Key      string
	Size     int64
	Created  time.Time
	Metadata map[string]string
}

// AudioKey returns the object key for a video's MP3
func AudioKey(videoID string) string {
	return AudioPrefix + videoID + ".mp3"
}

// StorePath returns the gs:// path of a key in a bucket
func StorePath(bucket, key string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, key)
}

// AudioMetadata builds the metadata attached to an uploaded MP3
func AudioMetadata(title, channel string, durationSeconds float64, sourceURL string) map[string]string {
	return map[string]string{
		MetaTitle:     title,
		MetaChannel:   channel,
		MetaDuration:  strconv.FormatFloat(durationSeconds, 'f', -1, 64),
		MetaSourceURL: sourceURL,
	}
}
