package types

// Point is a coordinate in surface-local space. The origin is the top-left
// corner of the rendering surface, not the page or viewport.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a viewfinder rectangle. Start is the anchor where the drag began,
// End is where it finished. Width and Height are signed extents (End - Start);
// a drag toward the top-left produces negative values. Canonicalization to a
// non-negative crop region happens at extraction time, not here.
type Rect struct {
	StartX int `json:"startX"`
	StartY int `json:"startY"`
	EndX   int `json:"endX"`
	EndY   int `json:"endY"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size represents width and height dimensions.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PointerAction represents a single action in a pointer gesture sequence
// (down/move/up), already translated into surface-local coordinates.
type PointerAction struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Pointer action types.
const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)
