package sources

import (
	"fmt"
	"image"

	"github.com/camera-next/camcli/types"
)

// Static serves one fixed frame forever. It backs tests and lets the rest
// of the pipeline run on machines with no camera or display.
type Static struct {
	img  *image.RGBA
	size types.Size
}

// NewStatic creates a source serving img.
func NewStatic(img *image.RGBA) (*Static, error) {
	if img == nil {
		return nil, fmt.Errorf("static: image is required")
	}

	b := img.Bounds()
	return &Static{
		img:  img,
		size: types.Size{Width: b.Dx(), Height: b.Dy()},
	}, nil
}

func (s *Static) Start() error { return nil }

func (s *Static) Stop() error { return nil }

func (s *Static) Frame() (*image.RGBA, error) { return s.img, nil }

func (s *Static) Size() types.Size { return s.size }
