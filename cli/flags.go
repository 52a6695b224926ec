package cli

var (
	verbose bool

	// frame source selection, shared by snapshot and server commands
	sourceKind string
	streamURL  string

	// for snapshot command
	snapshotRegion      string
	snapshotOutputPath  string
	snapshotFormat      string
	snapshotJpegQuality int
)
