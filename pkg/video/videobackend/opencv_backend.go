package videobackend

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoncompositor/pkg/log"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVBackend struct{}

func (b *openCVBackend) Connect(cancel context.Context, addr string) (Connection, error) {
	conn := openCVConnection{}
	err := conn.connect(cancel, addr)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (b *openCVBackend) NewFrame() videoframe.Frame {
	return videoframe.NewOpenCV()
}

type openCVConnection struct {
	uuid   string
	mu     sync.Mutex
	isOpen bool
	vc     *gocv.VideoCapture
}

func (c *openCVConnection) connect(cancel context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(addr, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-cancel.Done():
		go releaseAbandonedStream(connAndError)
		return xerror.New("connection cancelled")
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(addr)
	result := openVideoStreamResult{vc: vc, err: err}
	d <- result
}

// releaseAbandonedStream closes a capture which finished opening after
// its caller had already given up waiting for it.
func releaseAbandonedStream(d chan openVideoStreamResult) {
	r := <-d
	if r.err == nil && r.vc != nil {
		if err := closeVideoCapture(r.vc); err != nil {
			log.Error("unable to close abandoned video capture: %v", err)
		}
	}
}

// accepts device indexes ("0"), file paths and stream URLs
var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

var videoCaptureIsOpened = func(vc *gocv.VideoCapture) bool {
	return vc.IsOpened()
}

var closeVideoCapture = func(vc *gocv.VideoCapture) error {
	return vc.Close()
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *openCVConnection) Read(frame videoframe.Frame) error {
	mat, err := videoframe.MatRef(frame)
	if err != nil {
		return xerror.Errorf("unable to read from OpenCV connection: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return xerror.New("video connection is closed")
	}
	if ok := readFromVideoConnection(c.vc, mat); !ok {
		return xerror.New("unable to read from video connection")
	}
	if mat.Empty() {
		return xerror.New("video connection returned empty frame")
	}
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return videoCaptureIsOpened(c.vc)
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	return closeVideoCapture(c.vc)
}
