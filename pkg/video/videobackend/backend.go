package videobackend

import (
	"context"

	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
)

type Connection interface {
	UUID() string
	Read(videoframe.Frame) error
	IsOpen() bool
	Close() error
}

type Backend interface {
	Connect(context.Context, string) (Connection, error)
	NewFrame() videoframe.Frame
}

var defaultMockSize = videoframe.Dimensions{W: 800, H: 480}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return MockWithSize(defaultMockSize)
}

// MockWithSize returns a backend which renders a synthetic test card
// of the given size instead of reading from a capture device.
func MockWithSize(size videoframe.Dimensions) Backend {
	if size.W <= 0 || size.H <= 0 {
		size = defaultMockSize
	}
	return &mockVideoBackend{size: size}
}

func Resolve(t string, mockSize videoframe.Dimensions) Backend {
	switch t {
	case "mock":
		return MockWithSize(mockSize)
	default:
		return Default()
	}
}
