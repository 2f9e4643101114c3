package params

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoncompositor/pkg/video/videocomposite"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

var fs afero.Fs = afero.NewOsFs()

type fileSource struct {
	paramsPath  string
	overlayPath string
}

// NewFileSource reads parameters and the overlay image from the given
// paths on every call, nothing is cached between reads.
func NewFileSource(paramsPath, overlayPath string) Source {
	return &fileSource{paramsPath: paramsPath, overlayPath: overlayPath}
}

func (s *fileSource) Read() (videocomposite.Params, error) {
	content, err := afero.ReadFile(fs, s.paramsPath)
	if err != nil {
		return videocomposite.Params{}, pkgerrors.Wrapf(ErrParameterParseFailure, "unable to read %s: %v", s.paramsPath, err)
	}
	p, err := Parse(content)
	if err != nil {
		return videocomposite.Params{}, pkgerrors.Wrapf(err, "%s", s.paramsPath)
	}
	return p, nil
}

func (s *fileSource) LoadOverlay() (videoframe.Frame, error) {
	content, err := afero.ReadFile(fs, s.overlayPath)
	if err != nil {
		return nil, xerror.Errorf("%w: unable to read %s: %v", videocomposite.ErrMissingOverlayAsset, s.overlayPath, err)
	}
	if len(content) == 0 {
		return nil, xerror.Errorf("%w: %s is empty", videocomposite.ErrMissingOverlayAsset, s.overlayPath)
	}
	mat, err := decodeImage(content)
	if err != nil {
		return nil, xerror.Errorf("%w: unable to decode %s: %v", videocomposite.ErrMissingOverlayAsset, s.overlayPath, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, xerror.Errorf("%w: unable to decode %s", videocomposite.ErrMissingOverlayAsset, s.overlayPath)
	}
	return videoframe.FromMat(mat), nil
}

var decodeImage = func(content []byte) (gocv.Mat, error) {
	return gocv.IMDecode(content, gocv.IMReadColor)
}

// WriteDefaults creates the parameter file with neutral values unless
// it already exists.
func WriteDefaults(path string) error {
	file, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return xerror.Errorf("unable to create parameter file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(Format(videocomposite.DefaultParams())); err != nil {
		return xerror.Errorf("unable to write parameter file: %s: %w", path, err)
	}
	return nil
}
