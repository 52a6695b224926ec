package sources

import (
	"fmt"
	"image"
	"time"

	"github.com/camera-next/camcli/viewfinder"
)

// Frame source kinds.
const (
	KindScreen = "screen"
	KindMJPEG  = "mjpeg"
	KindStatic = "static"
)

// Options carries backend-specific settings.
type Options struct {
	// StreamURL is the MJPEG stream endpoint (mjpeg only).
	StreamURL string

	// Interval between screen grabs (screen only). Zero means the default.
	Interval time.Duration

	// Image is the fixed frame served by the static source.
	Image *image.RGBA
}

// New constructs the named frame source. An unknown kind or an unavailable
// platform fails here, at construction, never at first use.
func New(kind string, opts Options) (viewfinder.FrameSource, error) {
	switch kind {
	case KindScreen:
		return NewScreen(opts.Interval)
	case KindMJPEG:
		return NewMJPEG(opts.StreamURL)
	case KindStatic:
		return NewStatic(opts.Image)
	default:
		return nil, fmt.Errorf("unknown frame source %q", kind)
	}
}

// Kinds returns the known frame source kinds.
func Kinds() []string {
	return []string{KindScreen, KindMJPEG, KindStatic}
}
