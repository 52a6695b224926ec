package viewfinder

import (
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/camera-next/camcli/types"
)

// bytesPerPixel is the RGBA pixel width.
const bytesPerPixel = 4

// Extract crops rect out of frame into a freshly allocated buffer anchored
// at (0,0). The rectangle may carry negative extents (drag toward the
// top-left); extraction canonicalizes it into a top-left-anchored,
// non-negative region, so opposite drag directions over the same area yield
// identical pixels. A crop reaching past the frame is clipped to the
// intersection, never an error; a zero-area result is valid.
func Extract(frame *image.RGBA, rect types.Rect) *Snapshot {
	cropW := abs(rect.Width)
	cropH := abs(rect.Height)
	x0 := min(rect.StartX, rect.EndX)
	y0 := min(rect.StartY, rect.EndY)

	var b image.Rectangle
	if frame != nil {
		b = frame.Bounds()
	}

	// clip to the frame so the copy never reads out of bounds
	if x0 < b.Min.X {
		cropW -= b.Min.X - x0
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		cropH -= b.Min.Y - y0
		y0 = b.Min.Y
	}
	if x0+cropW > b.Max.X {
		cropW = b.Max.X - x0
	}
	if y0+cropH > b.Max.Y {
		cropH = b.Max.Y - y0
	}
	if cropW < 0 {
		cropW = 0
	}
	if cropH < 0 {
		cropH = 0
	}

	out := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	if frame != nil && cropW > 0 && cropH > 0 {
		rowBytes := cropW * bytesPerPixel
		for y := 0; y < cropH; y++ {
			srcOff := (y0+y-b.Min.Y)*frame.Stride + (x0-b.Min.X)*bytesPerPixel
			dstOff := y * out.Stride
			copy(out.Pix[dstOff:dstOff+rowBytes], frame.Pix[srcOff:srcOff+rowBytes])
		}
	}

	return &Snapshot{
		ID:      uuid.NewString(),
		Image:   out,
		Width:   cropW,
		Height:  cropH,
		TakenAt: time.Now(),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
