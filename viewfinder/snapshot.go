package viewfinder

import (
	"image"
	"time"
)

// Snapshot is an immutable still image cropped out of a source frame. It
// keeps no reference to the rectangle that produced it; it is a frozen
// artifact owned by the store once created.
type Snapshot struct {
	ID      string
	Image   *image.RGBA
	Width   int
	Height  int
	TakenAt time.Time
}

// SnapshotInfo is the transport-friendly metadata view of a Snapshot. The
// pixel data itself is fetched separately.
type SnapshotInfo struct {
	ID      string    `json:"id"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	TakenAt time.Time `json:"takenAt"`
}

// Info returns the snapshot's metadata.
func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		ID:      s.ID,
		Width:   s.Width,
		Height:  s.Height,
		TakenAt: s.TakenAt,
	}
}
