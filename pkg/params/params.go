package params

import (
	"errors"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/tauraamui/dragoncompositor/pkg/video/videocomposite"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
)

var ErrParameterParseFailure = errors.New("parameter parse failure")

// Source supplies the operator controls and overlay image, both of which
// are written by another process and may change between any two reads.
type Source interface {
	Read() (videocomposite.Params, error)
	// LoadOverlay returns a freshly decoded overlay, callers own and must
	// close the returned frame.
	LoadOverlay() (videoframe.Frame, error)
}

// Parse reads brightness from the first line and contrast from the second.
// Lines beyond the second are ignored.
func Parse(content []byte) (videocomposite.Params, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 {
		return videocomposite.Params{}, pkgerrors.Wrap(ErrParameterParseFailure, "contrast line missing")
	}

	brightness, err := parseLine(lines[0], "brightness")
	if err != nil {
		return videocomposite.Params{}, err
	}

	contrast, err := parseLine(lines[1], "contrast")
	if err != nil {
		return videocomposite.Params{}, err
	}

	return videocomposite.Params{Brightness: brightness, Contrast: contrast}, nil
}

func parseLine(line, name string) (int, error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return 0, pkgerrors.Wrapf(ErrParameterParseFailure, "%s line is empty", name)
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0, pkgerrors.Wrapf(ErrParameterParseFailure, "%s value %q is not an integer", name, line)
	}
	return v, nil
}

// Format renders params in the two line layout Parse accepts.
func Format(p videocomposite.Params) []byte {
	return []byte(strconv.Itoa(p.Brightness) + "\n" + strconv.Itoa(p.Contrast) + "\n")
}
