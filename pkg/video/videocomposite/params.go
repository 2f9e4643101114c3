package videocomposite

// Params are the operator controls applied to every captured frame.
// Brightness is conventionally within [0, 100] and contrast within
// [0, 255], neither range is enforced.
type Params struct {
	Brightness int
	Contrast   int
}

// DefaultParams leave captured frames unchanged.
func DefaultParams() Params {
	return Params{Brightness: 50, Contrast: 255}
}

// Gain is the per channel multiplier derived from contrast.
func (p Params) Gain() float64 {
	return float64(p.Contrast) / 255.0
}

// Offset is the per channel shift derived from brightness, 50 is neutral.
func (p Params) Offset() float64 {
	return float64(p.Brightness - 50)
}
