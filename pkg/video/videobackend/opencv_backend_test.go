package videobackend

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

func overloadOpenVidCap(overload func(addr string) (*gocv.VideoCapture, error)) func() {
	openVidCapRef := openVideoCapture
	openVideoCapture = overload
	return func() { openVideoCapture = openVidCapRef }
}

func overloadReadFromVidCap(overload func(vc *gocv.VideoCapture, mat *gocv.Mat) bool) func() {
	readFromVidCapRef := readFromVideoConnection
	readFromVideoConnection = overload
	return func() { readFromVideoConnection = readFromVidCapRef }
}

func overloadCloseVidCap(overload func(vc *gocv.VideoCapture) error) func() {
	closeVidCapRef := closeVideoCapture
	closeVideoCapture = overload
	return func() { closeVideoCapture = closeVidCapRef }
}

func openStubbedConnection(t *testing.T) (*openCVConnection, func()) {
	resetOpen := overloadOpenVidCap(func(addr string) (*gocv.VideoCapture, error) {
		return &gocv.VideoCapture{}, nil
	})
	resetClose := overloadCloseVidCap(func(vc *gocv.VideoCapture) error { return nil })

	conn := openCVConnection{}
	if err := conn.connect(context.TODO(), "0"); err != nil {
		t.Fatal(err)
	}
	return &conn, func() { resetOpen(); resetClose() }
}

func TestOpenVideoStreamInvokesOpenVideoCapture(t *testing.T) {
	is := is.New(t)
	var passedAddr string
	resetOpenVidCap := overloadOpenVidCap(
		func(addr string) (*gocv.VideoCapture, error) {
			passedAddr = addr
			return nil, xerror.New("test connect error")
		},
	)
	defer resetOpenVidCap()

	conn := openCVConnection{}
	is.Equal(conn.connect(context.TODO(), "/dev/video2").Error(), "test connect error")
	is.Equal(passedAddr, "/dev/video2")
	is.True(!conn.isOpen)
}

func TestBackendConnectReturnsOpenErrors(t *testing.T) {
	is := is.New(t)
	resetOpenVidCap := overloadOpenVidCap(
		func(addr string) (*gocv.VideoCapture, error) {
			return nil, xerror.New("Error opening device: 0")
		},
	)
	defer resetOpenVidCap()

	conn, err := OpenCV().Connect(context.TODO(), "0")
	is.True(conn == nil)
	is.Equal(err.Error(), "Error opening device: 0")
}

func TestConnectWithImmediateCancelInvoke(t *testing.T) {
	is := is.New(t)
	release := make(chan struct{})
	resetOpenVidCap := overloadOpenVidCap(
		func(addr string) (*gocv.VideoCapture, error) {
			<-release
			return nil, xerror.New("opened too late")
		},
	)
	defer resetOpenVidCap()
	defer close(release)

	conn := openCVConnection{}
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	is.Equal(conn.connect(ctx, "0").Error(), "connection cancelled")
}

func TestReadFromConnectionFillsFrame(t *testing.T) {
	is := is.New(t)
	conn, reset := openStubbedConnection(t)
	defer reset()

	resetRead := overloadReadFromVidCap(func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
		src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 48, 64, gocv.MatTypeCV8UC3)
		defer src.Close()
		src.CopyTo(mat)
		return true
	})
	defer resetRead()

	frame := videoframe.NewOpenCV()
	defer frame.Close()

	is.NoErr(conn.Read(frame))
	is.Equal(frame.Dimensions(), videoframe.Dimensions{W: 64, H: 48})
	is.Equal(frame.Channels(), 3)
}

func TestReadFromConnectionFailsWhenCaptureFails(t *testing.T) {
	is := is.New(t)
	conn, reset := openStubbedConnection(t)
	defer reset()

	resetRead := overloadReadFromVidCap(func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
		return false
	})
	defer resetRead()

	frame := videoframe.NewOpenCV()
	defer frame.Close()

	is.Equal(conn.Read(frame).Error(), "unable to read from video connection")
}

func TestReadFromConnectionFailsOnEmptyFrame(t *testing.T) {
	is := is.New(t)
	conn, reset := openStubbedConnection(t)
	defer reset()

	resetRead := overloadReadFromVidCap(func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
		return true
	})
	defer resetRead()

	frame := videoframe.NewOpenCV()
	defer frame.Close()

	is.Equal(conn.Read(frame).Error(), "video connection returned empty frame")
}

func TestReadFromClosedConnectionFails(t *testing.T) {
	is := is.New(t)
	conn, reset := openStubbedConnection(t)
	defer reset()

	is.NoErr(conn.Close())
	is.NoErr(conn.Close())

	frame := videoframe.NewOpenCV()
	defer frame.Close()
	is.Equal(conn.Read(frame).Error(), "video connection is closed")
	is.True(!conn.IsOpen())
}

func TestConnectionUUIDIsStable(t *testing.T) {
	is := is.New(t)
	conn := openCVConnection{}
	id := conn.UUID()
	is.True(len(id) > 0)
	is.Equal(conn.UUID(), id)
}
