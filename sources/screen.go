package sources

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vova616/screenshot"

	"github.com/camera-next/camcli/types"
)

const defaultGrabInterval = 50 * time.Millisecond

// Screen captures the local display as the live frame source. A background
// loop grabs the screen at a fixed interval and keeps the freshest frame;
// Frame never blocks on a grab.
type Screen struct {
	interval time.Duration
	size     types.Size
	grab     func() (*image.RGBA, error)
	latest   atomic.Pointer[image.RGBA]
	log      *logrus.Entry

	mu   sync.Mutex
	stop chan struct{}
}

// NewScreen probes the display geometry. A probe failure means screen
// capture is not available on this platform, reported as a construction
// error.
func NewScreen(interval time.Duration) (*Screen, error) {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screen capture unavailable: %w", err)
	}

	if interval <= 0 {
		interval = defaultGrabInterval
	}

	return &Screen{
		interval: interval,
		size:     types.Size{Width: r.Dx(), Height: r.Dy()},
		grab:     screenshot.CaptureScreen,
		log:      logrus.WithField("source", "screen"),
	}, nil
}

// Start grabs an initial frame and begins the capture loop. Failing the
// initial grab is an acquisition failure, not a crash.
func (s *Screen) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return nil
	}

	img, err := s.grab()
	if err != nil {
		return fmt.Errorf("screen grab: %w", err)
	}
	s.latest.Store(img)

	// each loop owns its stop channel, so a restart can never revive an
	// older loop
	s.stop = make(chan struct{})
	go s.loop(s.stop)
	return nil
}

func (s *Screen) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			img, err := s.grab()
			if err != nil {
				s.log.WithError(err).Debug("screen grab failed")
				continue
			}
			s.latest.Store(img)
		}
	}
}

// Stop ends the capture loop. Best effort; an in-flight grab finishes on
// its own.
func (s *Screen) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	return nil
}

// Frame returns the freshest captured frame.
func (s *Screen) Frame() (*image.RGBA, error) {
	img := s.latest.Load()
	if img == nil {
		return nil, fmt.Errorf("no screen frame available")
	}
	return img, nil
}

// Size returns the display dimensions.
func (s *Screen) Size() types.Size {
	return s.size
}
