package pipeline_test

import (
	"context"
	"sync"
	"time"

	"github.com/tauraamui/dragoncompositor/pkg/video/videobackend"
	"github.com/tauraamui/dragoncompositor/pkg/video/videocomposite"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const (
	testFrameW = 320
	testFrameH = 240
)

type mockBackend struct {
	connectErr error
	conn       *mockConn
	connects   int
}

func (b *mockBackend) Connect(ctx context.Context, addr string) (videobackend.Connection, error) {
	b.connects++
	if b.connectErr != nil {
		return nil, b.connectErr
	}
	return b.conn, nil
}

func (b *mockBackend) NewFrame() videoframe.Frame {
	return videoframe.NewOpenCV()
}

type mockConn struct {
	mu sync.Mutex
	// value written to every channel of each read frame
	value    float64
	failOn   int
	reads    int
	isClosed bool
}

func (c *mockConn) UUID() string { return "mock-conn" }

func (c *mockConn) Read(frame videoframe.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.failOn > 0 && c.reads >= c.failOn {
		return xerror.New("device unplugged")
	}
	mat, err := videoframe.MatRef(frame)
	if err != nil {
		return err
	}
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(c.value, c.value, c.value, 0), testFrameH, testFrameW, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.CopyTo(mat)
	return nil
}

func (c *mockConn) IsOpen() bool { return !c.isClosed }

func (c *mockConn) Close() error {
	c.isClosed = true
	return nil
}

type readResult struct {
	params videocomposite.Params
	err    error
}

type mockSource struct {
	results      []readResult
	reads        int
	overlayValue float64
	// per load overlay mat types, the last entry repeats, CV8UC3 when empty
	overlayTypes []gocv.MatType
	overlayErr   error
	overlayLoads int
}

func (s *mockSource) Read() (videocomposite.Params, error) {
	i := s.reads
	s.reads++
	if len(s.results) == 0 {
		return videocomposite.DefaultParams(), nil
	}
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i].params, s.results[i].err
}

func (s *mockSource) LoadOverlay() (videoframe.Frame, error) {
	s.overlayLoads++
	if s.overlayErr != nil {
		return nil, s.overlayErr
	}
	mt := gocv.MatTypeCV8UC3
	if n := len(s.overlayTypes); n > 0 {
		i := s.overlayLoads - 1
		if i >= n {
			i = n - 1
		}
		mt = s.overlayTypes[i]
	}
	v := s.overlayValue
	return videoframe.FromMat(gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 10, 10, mt)), nil
}

// shownFrame records the pixels of interest from a presented frame,
// one inside the quadrant and one in the far corner outside it.
type shownFrame struct {
	dimensions videoframe.Dimensions
	inside     uint8
	outside    uint8
}

type mockSink struct {
	shown       []shownFrame
	cancelAfter int
	onPoll      func(int)
	polls       []time.Duration
	isClosed    bool
}

func (s *mockSink) Show(frame videoframe.NoCloser) error {
	mat, err := videoframe.MatRef(frame)
	if err != nil {
		return err
	}
	d := frame.Dimensions()
	s.shown = append(s.shown, shownFrame{
		dimensions: d,
		inside:     mat.GetUCharAt(0, 0),
		outside:    mat.GetUCharAt(d.H-1, (d.W-1)*frame.Channels()),
	})
	return nil
}

func (s *mockSink) PollCancel(wait time.Duration) bool {
	s.polls = append(s.polls, wait)
	if s.onPoll != nil {
		s.onPoll(len(s.polls))
	}
	return s.cancelAfter > 0 && len(s.shown) >= s.cancelAfter
}

func (s *mockSink) Close() error {
	s.isClosed = true
	return nil
}

type steppedClock struct {
	base  time.Time
	steps []time.Duration
	calls int
}

func (c *steppedClock) now() time.Time {
	i := c.calls
	c.calls++
	if i >= len(c.steps) {
		i = len(c.steps) - 1
	}
	return c.base.Add(c.steps[i])
}
