package videoframe

import (
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
}

// NewOpenCV returns an empty frame which capture reads can fill.
func NewOpenCV() Frame {
	return &openCVFrame{mat: gocv.NewMat()}
}

// FromMat takes ownership of the given mat, closing the frame closes it.
func FromMat(mat gocv.Mat) Frame {
	return &openCVFrame{mat: mat}
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Dimensions() Dimensions {
	return Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Channels() int {
	return frame.mat.Channels()
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

// MatRef resolves the OpenCV mat held by the frame.
func MatRef(frame NoCloser) (*gocv.Mat, error) {
	if frame == nil {
		return nil, xerror.New("frame is nil")
	}
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV frame")
	}
	return mat, nil
}
