package driver

import (
	"bfi/internal/observ"
	"bfi/internal/pipeline"
)

// Options are shared by every single-file entry point.
type Options struct {
	MaxDiagnostics int
	// Timer, when set, records one phase per stage.
	Timer *observ.Timer
	// Progress receives stage events.
	Progress pipeline.ProgressSink
}
