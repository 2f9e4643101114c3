package videodisplay

import (
	"time"

	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
)

const EscapeKey = 27

// Sink presents composed frames and reports when the operator asks to stop.
type Sink interface {
	Show(videoframe.NoCloser) error
	// PollCancel waits up to the given duration for the cancel signal.
	PollCancel(time.Duration) bool
	Close() error
}

type Settings struct {
	Title     string
	CancelKey int
}

func Resolve(t string, settings Settings) Sink {
	switch t {
	case "headless":
		return Headless()
	default:
		return Window(settings)
	}
}
