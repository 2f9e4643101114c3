package videodisplay

import (
	"time"

	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
)

type headlessSink struct {
	shown int
}

// Headless returns a sink which drops frames and never requests cancel,
// shutdown then only happens through process signals.
func Headless() Sink {
	return &headlessSink{}
}

func (s *headlessSink) Show(videoframe.NoCloser) error {
	s.shown++
	return nil
}

func (s *headlessSink) PollCancel(wait time.Duration) bool {
	time.Sleep(wait)
	return false
}

func (s *headlessSink) Close() error { return nil }
