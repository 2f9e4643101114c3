package videocomposite

import (
	"image"
	"image/color"

	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const (
	rateLabelRightInset = 150
	rateLabelBaseline   = 30
	rateLabelScale      = 0.7
	rateLabelThickness  = 2
)

var rateLabelColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// RateLabelOrigin is the fixed top right anchor the frame rate is drawn at.
func RateLabelOrigin(size videoframe.Dimensions) image.Point {
	x := size.W - rateLabelRightInset
	if x < 0 {
		x = 0
	}
	return image.Pt(x, rateLabelBaseline)
}

// StampRate draws the frame rate label onto the frame in place.
func StampRate(frame videoframe.NoCloser, label string) error {
	mat, err := videoframe.MatRef(frame)
	if err != nil {
		return xerror.Errorf("unable to stamp frame rate: %w", err)
	}
	gocv.PutText(
		mat, label, RateLabelOrigin(frame.Dimensions()),
		gocv.FontHersheySimplex, rateLabelScale, rateLabelColor, rateLabelThickness,
	)
	return nil
}
