package videoframe

import "image"

type Dimensions struct {
	W, H int
}

func (d Dimensions) ToPoint() image.Point {
	return image.Pt(d.W, d.H)
}

// Quadrant is the top left quarter, halves are truncated
// so odd sized frames leave their last row and column out.
func (d Dimensions) Quadrant() Dimensions {
	return Dimensions{W: d.W / 2, H: d.H / 2}
}

type NoCloser interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Channels() int
}

type Frame interface {
	NoCloser
	Close()
}
