package sources

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/camera-next/camcli/types"
)

const firstFrameTimeout = 10 * time.Second

// MJPEG reads frames from an MJPEG-over-HTTP camera stream, the format IP
// and phone cameras commonly expose. The stream is one long-lived GET whose
// body is a multipart sequence of JPEG parts; the reader keeps the freshest
// decoded frame.
type MJPEG struct {
	url     string
	client  *http.Client
	cancel  context.CancelFunc
	latest  atomic.Pointer[image.RGBA]
	size    types.Size
	running atomic.Bool
	log     *logrus.Entry
}

// NewMJPEG validates the stream URL. Connecting happens in Start so a
// camera that is temporarily offline stays retryable.
func NewMJPEG(streamURL string) (*MJPEG, error) {
	if streamURL == "" {
		return nil, fmt.Errorf("mjpeg: stream url is required")
	}
	if _, err := url.ParseRequestURI(streamURL); err != nil {
		return nil, fmt.Errorf("mjpeg: invalid stream url: %w", err)
	}

	return &MJPEG{
		url: streamURL,
		// no timeout for long-lived streaming requests
		client: &http.Client{Timeout: 0},
		log:    logrus.WithField("source", "mjpeg"),
	}, nil
}

// Start connects to the stream and blocks until the first frame is decoded,
// so Size is stable once Start returns.
func (m *MJPEG) Start() error {
	if m.running.Load() {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("mjpeg: create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := m.client.Do(req)
	if err != nil {
		cancel()
		return fmt.Errorf("mjpeg: connect: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		cancel()
		return fmt.Errorf("mjpeg: unexpected status code: %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		_ = resp.Body.Close()
		cancel()
		return fmt.Errorf("mjpeg: not a multipart stream: %q", resp.Header.Get("Content-Type"))
	}

	m.cancel = cancel
	m.running.Store(true)

	first := make(chan error, 1)
	go m.readLoop(resp.Body, multipart.NewReader(resp.Body, params["boundary"]), first)

	select {
	case err := <-first:
		if err != nil {
			_ = m.Stop()
			return err
		}
	case <-time.After(firstFrameTimeout):
		_ = m.Stop()
		return fmt.Errorf("mjpeg: no frame within %v", firstFrameTimeout)
	}

	return nil
}

func (m *MJPEG) readLoop(body io.ReadCloser, reader *multipart.Reader, first chan<- error) {
	defer func() { _ = body.Close() }()

	signaled := false
	for m.running.Load() {
		part, err := reader.NextPart()
		if err != nil {
			if !signaled {
				first <- fmt.Errorf("mjpeg: stream ended before first frame: %w", err)
			} else if m.running.Load() && err != io.EOF {
				m.log.WithError(err).Warn("mjpeg stream ended")
			}
			return
		}

		img, err := jpeg.Decode(part)
		_ = part.Close()
		if err != nil {
			m.log.WithError(err).Debug("skipping undecodable frame")
			continue
		}

		rgba := toRGBA(img)
		m.latest.Store(rgba)

		if !signaled {
			b := rgba.Bounds()
			m.size = types.Size{Width: b.Dx(), Height: b.Dy()}
			signaled = true
			first <- nil
		}
	}
}

// Stop cancels the streaming request. Best effort.
func (m *MJPEG) Stop() error {
	m.running.Store(false)
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// Frame returns the freshest decoded frame.
func (m *MJPEG) Frame() (*image.RGBA, error) {
	img := m.latest.Load()
	if img == nil {
		return nil, fmt.Errorf("no mjpeg frame available")
	}
	return img, nil
}

// Size returns the frame dimensions seen on the first decoded frame.
func (m *MJPEG) Size() types.Size {
	return m.size
}

// toRGBA normalizes a decoded frame into *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
