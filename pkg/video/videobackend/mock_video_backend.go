package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// roughly the pace of a real capture device
var mockFrameInterval = time.Second / 30

var mockTimeNow = func() time.Time { return time.Now() }

type mockVideoBackend struct {
	size videoframe.Dimensions
}

func (b *mockVideoBackend) Connect(cancel context.Context, addr string) (Connection, error) {
	select {
	case <-cancel.Done():
		return nil, xerror.New("connection cancelled")
	default:
	}
	return &mockVideoConnection{size: b.size, title: addr, isOpen: true}, nil
}

func (b *mockVideoBackend) NewFrame() videoframe.Frame {
	return videoframe.NewOpenCV()
}

type mockVideoConnection struct {
	mu              sync.Mutex
	uuid            string
	title           string
	size            videoframe.Dimensions
	isOpen          bool
	frameCount      int
	lastRead        time.Time
	baseFrameCanvas image.Image
}

func (mvc *mockVideoConnection) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *mockVideoConnection) Read(frame videoframe.Frame) error {
	frameMatRef, err := videoframe.MatRef(frame)
	if err != nil {
		return xerror.Errorf("unable to read from mock connection: %w", err)
	}

	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if !mvc.isOpen {
		return xerror.New("video connection is closed")
	}

	mvc.pace()

	if mvc.baseFrameCanvas == nil {
		mvc.baseFrameCanvas = renderBaseFrameCanvas(mvc.size)
	}

	mvc.frameCount++
	img, err := drawTextLayerOntoBaseFrameClone(
		mvc.baseFrameCanvas, mvc.title, mvc.frameCount,
	)
	if err != nil {
		return err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return xerror.Errorf("unable to convert Go image into OpenCV mat: %w", err)
	}
	defer mat.Close()

	mat.CopyTo(frameMatRef)

	return nil
}

// pace blocks until a frame interval has passed since the previous read.
func (mvc *mockVideoConnection) pace() {
	now := mockTimeNow()
	if !mvc.lastRead.IsZero() {
		if wait := mockFrameInterval - now.Sub(mvc.lastRead); wait > 0 {
			time.Sleep(wait)
			now = now.Add(wait)
		}
	}
	mvc.lastRead = now
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, title string, frameNumber int) (image.Image, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()
	lines := []string{
		"DD_OFFLINE_STREAM",
		title,
		fmt.Sprintf("#%d %s", frameNumber, mockTimeNow().Format("15:04:05.000")),
	}
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		y := (h / 4) * (i + 1)
		if err := drawText(baseClone, 5, y, line, float64(h)/10); err != nil {
			return nil, xerror.Errorf("unable to draw text onto in-mem image for offline stream: %w", err)
		}
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(size videoframe.Dimensions) image.Image {
	w, h := size.W, size.H
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := math.Min(hw, hh) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var parsedFont *truetype.Font

func drawText(canvas *image.RGBA, x, y int, text string, fontSize float64) error {
	if parsedFont == nil {
		f, err := freetype.ParseFont(goregular.TTF)
		if err != nil {
			return err
		}
		parsedFont = f
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
