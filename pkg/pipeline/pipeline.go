package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/tauraamui/dragoncompositor/pkg/log"
	"github.com/tauraamui/dragoncompositor/pkg/params"
	"github.com/tauraamui/dragoncompositor/pkg/video/videobackend"
	"github.com/tauraamui/dragoncompositor/pkg/video/videocomposite"
	"github.com/tauraamui/dragoncompositor/pkg/video/videodisplay"
	"github.com/tauraamui/dragoncompositor/pkg/video/videoframe"
	"github.com/tauraamui/dragoncompositor/pkg/video/videorate"
	"github.com/tauraamui/xerror"
)

var (
	ErrDeviceOpenFailure = errors.New("device open failure")
	ErrCaptureFailure    = errors.New("capture failure")
)

const DefaultPollInterval = 10 * time.Millisecond

type State int

const (
	Opening State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Opening:
		return "opening"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

type Options struct {
	Device       string
	PollInterval time.Duration
	Now          func() time.Time
}

type Stats struct {
	FramesPresented   int
	ParameterFailures int
	OverlayFailures   int
	BlendFailures     int
	LastFPS           float64
}

// Driver runs the capture, composite and present loop on the calling
// goroutine until the sink reports cancel, the context is done or the
// capture device fails.
type Driver struct {
	backend    videobackend.Backend
	source     params.Source
	sink       videodisplay.Sink
	compositor *videocomposite.Compositor
	rate       *videorate.Tracker
	opts       Options

	state          State
	conn           videobackend.Connection
	params         videocomposite.Params
	paramsFailing  bool
	overlayFailing bool
	blendFailing   bool
	stats          Stats
}

func New(backend videobackend.Backend, source params.Source, sink videodisplay.Sink, opts Options) *Driver {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		backend:    backend,
		source:     source,
		sink:       sink,
		compositor: videocomposite.New(),
		rate:       videorate.New(),
		opts:       opts,
		params:     videocomposite.DefaultParams(),
	}
}

func (d *Driver) State() State { return d.state }

func (d *Driver) Stats() Stats { return d.stats }

// Run blocks until the pipeline terminates. It returns nil on a requested
// shutdown and an error wrapping ErrDeviceOpenFailure or ErrCaptureFailure
// otherwise. Resources are always released before returning.
func (d *Driver) Run(ctx context.Context) error {
	if d.state != Opening {
		return xerror.Errorf("pipeline cannot run from %s state", d.state)
	}

	log.Info("Opening capture device [%s]...", d.opts.Device)
	conn, err := d.backend.Connect(ctx, d.opts.Device)
	if err != nil {
		d.terminate()
		return xerror.Errorf("%w: unable to open [%s]: %v", ErrDeviceOpenFailure, d.opts.Device, err)
	}
	d.conn = conn
	d.state = Running
	defer d.terminate()
	log.Info("Capture device [%s] opened (%s)", d.opts.Device, conn.UUID())

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutdown requested, stopping pipeline...")
			return nil
		default:
		}

		cancelled, err := d.iterate()
		if err != nil {
			return err
		}
		if cancelled {
			log.Info("Cancel key pressed, stopping pipeline...")
			return nil
		}
	}
}

func (d *Driver) iterate() (bool, error) {
	frame := d.backend.NewFrame()
	defer frame.Close()

	if err := d.conn.Read(frame); err != nil {
		return false, xerror.Errorf("%w: %v", ErrCaptureFailure, err)
	}

	p := d.readParams()
	overlay := d.loadOverlay()
	if overlay != nil {
		defer overlay.Close()
	}

	out, err := d.compositor.Compose(frame, overlay, p)
	if out == nil {
		return false, xerror.Errorf("%w: %v", ErrCaptureFailure, err)
	}
	defer out.Close()
	if overlay != nil {
		d.blendResult(err)
	}

	d.stamp(out)

	if err := d.sink.Show(out); err != nil {
		log.Error("Unable to present frame: %v", err)
	} else {
		d.stats.FramesPresented++
	}

	return d.sink.PollCancel(d.opts.PollInterval), nil
}

// readParams falls back to the last successfully read values, the
// producer may be mid write.
func (d *Driver) readParams() videocomposite.Params {
	p, err := d.source.Read()
	if err != nil {
		d.stats.ParameterFailures++
		if !d.paramsFailing {
			d.paramsFailing = true
			log.Warn(
				"Unable to read parameters, keeping brightness %d and contrast %d: %v",
				d.params.Brightness, d.params.Contrast, err,
			)
		}
		return d.params
	}

	if d.paramsFailing {
		d.paramsFailing = false
		log.Info("Parameters readable again")
	}
	d.params = p
	return p
}

func (d *Driver) loadOverlay() videoframe.Frame {
	overlay, err := d.source.LoadOverlay()
	if err != nil {
		d.stats.OverlayFailures++
		if !d.overlayFailing {
			d.overlayFailing = true
			log.Warn("Unable to load overlay, presenting frames without it: %v", err)
		}
		return nil
	}

	if d.overlayFailing {
		d.overlayFailing = false
		log.Info("Overlay loaded again")
	}
	return overlay
}

// blendResult tracks compose failures for frames that did carry an
// overlay, an unreadable overlay is already reported by loadOverlay.
func (d *Driver) blendResult(err error) {
	if err != nil {
		d.stats.BlendFailures++
		if !d.blendFailing {
			d.blendFailing = true
			log.Warn("Unable to blend overlay, presenting frames without it: %v", err)
		}
		return
	}

	if d.blendFailing {
		d.blendFailing = false
		log.Info("Overlay blending again")
	}
}

func (d *Driver) stamp(frame videoframe.NoCloser) {
	fps, ok := d.rate.Sample(d.opts.Now())
	if ok {
		d.stats.LastFPS = fps
	}
	if err := videocomposite.StampRate(frame, videorate.Label(fps, ok)); err != nil {
		log.Error(err.Error())
	}
}

func (d *Driver) terminate() {
	if d.state == Terminated {
		return
	}
	d.state = Terminated

	if d.conn != nil {
		log.Info("Closing capture device [%s]...", d.opts.Device)
		if err := d.conn.Close(); err != nil {
			log.Error("Unable to close capture device: %v", err)
		}
	}
	if err := d.sink.Close(); err != nil {
		log.Error("Unable to close display: %v", err)
	}
	d.compositor.Close()
}
