package videocomposite

import (
	"errors"
	"image"

	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

var ErrMissingOverlayAsset = errors.New("missing overlay asset")

const (
	baseWeight    = 1.0
	overlayWeight = 0.5
)

// Compositor adjusts captured frames and blends the overlay into their
// top left quadrant. Intermediate mats are reused between calls so a
// single Compositor must not be shared across goroutines.
type Compositor struct {
	stretched gocv.Mat
	converted gocv.Mat
	fitted    gocv.Mat
}

func New() *Compositor {
	return &Compositor{
		stretched: gocv.NewMat(),
		converted: gocv.NewMat(),
		fitted:    gocv.NewMat(),
	}
}

// Compose returns a new frame holding the brightness and contrast adjusted
// capture with the overlay blended in. If the overlay is missing or holds
// no image data the adjusted frame is still returned alongside an error
// wrapping ErrMissingOverlayAsset so callers may present it as is.
func (c *Compositor) Compose(captured, overlay videoframe.NoCloser, params Params) (videoframe.Frame, error) {
	src, err := videoframe.MatRef(captured)
	if err != nil {
		return nil, xerror.Errorf("unable to compose frame: %w", err)
	}
	if src.Empty() {
		return nil, xerror.New("unable to compose empty frame")
	}

	out := videoframe.FromMat(gocv.NewMat())
	adjusted, err := videoframe.MatRef(out)
	if err != nil {
		out.Close()
		return nil, err
	}
	adjust(*src, adjusted, params)

	if err := c.blend(adjusted, overlay); err != nil {
		return out, err
	}
	return out, nil
}

// adjust applies dst = saturate(src * gain + offset) to every channel.
func adjust(src gocv.Mat, dst *gocv.Mat, params Params) {
	src.ConvertToWithParams(dst, src.Type(), float32(params.Gain()), float32(params.Offset()))
}

func (c *Compositor) blend(dst *gocv.Mat, overlay videoframe.NoCloser) error {
	if overlay == nil {
		return ErrMissingOverlayAsset
	}
	ov, err := videoframe.MatRef(overlay)
	if err != nil {
		return xerror.Errorf("%w: %v", ErrMissingOverlayAsset, err)
	}
	if ov.Empty() {
		return xerror.Errorf("%w: overlay holds no image data", ErrMissingOverlayAsset)
	}

	size := videoframe.Dimensions{W: dst.Cols(), H: dst.Rows()}
	ResizeOverlay(*ov, &c.stretched, size)
	if err := matchChannels(c.stretched, &c.converted, dst.Channels()); err != nil {
		return err
	}

	quadrant := size.Quadrant()
	if quadrant.W == 0 || quadrant.H == 0 {
		return nil
	}
	ResizeOverlay(c.converted, &c.fitted, quadrant)

	roi := dst.Region(image.Rect(0, 0, quadrant.W, quadrant.H))
	defer roi.Close()
	gocv.AddWeighted(roi, baseWeight, c.fitted, overlayWeight, 0, &roi)

	return nil
}

// ResizeOverlay stretches src to exactly size using linear interpolation,
// aspect ratio is not preserved.
func ResizeOverlay(src gocv.Mat, dst *gocv.Mat, size videoframe.Dimensions) {
	gocv.Resize(src, dst, size.ToPoint(), 0, 0, gocv.InterpolationLinear)
}

// matchChannels converts src into the channel layout of the output frame,
// a synthesized alpha channel is always fully opaque.
func matchChannels(src gocv.Mat, dst *gocv.Mat, channels int) error {
	have := src.Channels()
	switch {
	case have == channels:
		src.CopyTo(dst)
	case have == 3 && channels == 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRToBGRA)
	case have == 4 && channels == 3:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToBGR)
	case have == 1 && channels == 3:
		gocv.CvtColor(src, dst, gocv.ColorGrayToBGR)
	case have == 1 && channels == 4:
		gocv.CvtColor(src, dst, gocv.ColorGrayToBGRA)
	default:
		return xerror.Errorf("unable to convert %d channel overlay to %d channels", have, channels)
	}
	return nil
}

func (c *Compositor) Close() {
	c.stretched.Close()
	c.converted.Close()
	c.fitted.Close()
}
