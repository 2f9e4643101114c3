package videodisplay

import (
	"time"

	"github.com/tauraamui/dragoncompositor/pkg/log"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type window interface {
	IMShow(gocv.Mat)
	WaitKey(int) int
	Close() error
}

var newWindow = func(title string) window {
	return gocv.NewWindow(title)
}

type windowSink struct {
	title     string
	cancelKey int
	win       window
}

// Window returns a sink which presents frames in a HighGUI window, the
// window itself is created on first use.
func Window(settings Settings) Sink {
	if settings.CancelKey == 0 {
		settings.CancelKey = EscapeKey
	}
	return &windowSink{title: settings.Title, cancelKey: settings.CancelKey}
}

func (s *windowSink) Show(frame videoframe.NoCloser) error {
	mat, err := videoframe.MatRef(frame)
	if err != nil {
		return xerror.Errorf("unable to show frame: %w", err)
	}
	if s.win == nil {
		log.Debug("Opening display window [%s]", s.title)
		s.win = newWindow(s.title)
	}
	s.win.IMShow(*mat)
	return nil
}

func (s *windowSink) PollCancel(wait time.Duration) bool {
	if s.win == nil {
		return false
	}
	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	key := s.win.WaitKey(ms)
	return key >= 0 && key&0xFF == s.cancelKey
}

func (s *windowSink) Close() error {
	if s.win == nil {
		return nil
	}
	log.Debug("Closing display window [%s]", s.title)
	err := s.win.Close()
	s.win = nil
	return err
}
