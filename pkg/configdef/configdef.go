package configdef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

type Values struct {
	Debug            bool   `json:"debug"`
	Backend          string `json:"backend" validate:"one_of=opencv,mock"`
	Device           string `json:"device"`
	ParametersPath   string `json:"parameters_path" validate:"empty=false"`
	OverlayPath      string `json:"overlay_path" validate:"empty=false"`
	Display          string `json:"display" validate:"one_of=window,headless"`
	WindowTitle      string `json:"window_title"`
	CancelKey        int    `json:"cancel_key" validate:"gte=1 & lte=255"`
	PollCancelMillis int    `json:"poll_cancel_millis" validate:"gte=1 & lte=1000"`
	MockWidth        int    `json:"mock_width" validate:"gte=2 & lte=7680"`
	MockHeight       int    `json:"mock_height" validate:"gte=2 & lte=4320"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if v.Backend == "opencv" && len(strings.TrimSpace(v.Device)) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("device is required for the opencv backend"))
	}
	if v.ParametersPath == v.OverlayPath {
		return fmt.Errorf(validationErrorHeader, errors.New("parameters and overlay paths must differ"))
	}
	return nil
}
