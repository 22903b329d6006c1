package extraction

// Mode selects what an extraction call produces
type Mode int

const (
	// ModeDownloadAudio downloads the stream and transcodes it to MP3
	ModeDownloadAudio Mode = iota
	// ModeMetadataOnly reads video metadata without writing files
	ModeMetadataOnly
	// ModeListFormats reads the available stream formats without writing files
	ModeListFormats
)

// Request represents a single inbound extraction
type Request struct {
	URL  string
	Mode Mode
}

// Info is the metadata reported by the extraction tool for one video
type Info struct {
	ID         string
	Title      string
	Channel    string
	Duration   float64 // seconds
	ViewCount  int64
	UploadDate string // YYYYMMDD as reported by the source
	Thumbnail  string
	Formats    []Format
}

// Format describes one stream the source offers
type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	FileSize   int64  `json:"filesize"`
	ACodec     string `json:"acodec"`
	VCodec     string `json:"vcodec"`
}

// TitleOrID returns the title, falling back to the video id
func (i *Info) TitleOrID() string {
	if i.Title == "" {
		return i.ID
	}
	return i.Title
}

// ChannelOrUnknown returns the channel name, or "Unknown" when the source reports none
func (i *Info) ChannelOrUnknown() string {
	if i.Channel == "" {
		return "Unknown"
	}
	return i.Channel
}
