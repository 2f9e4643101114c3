package videorate_test

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/dragoncompositor/pkg/video/videorate"
)

func TestTrackerFirstSampleIsSuppressed(t *testing.T) {
	is := is.New(t)
	tracker := videorate.New()
	fps, ok := tracker.Sample(time.Now())
	is.True(!ok)
	is.Equal(fps, 0.0)
}

func TestTrackerSamplesFromInterFrameInterval(t *testing.T) {
	is := is.New(t)
	base := time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC)
	tracker := videorate.New()

	_, ok := tracker.Sample(base)
	is.True(!ok)

	fps, ok := tracker.Sample(base.Add(40 * time.Millisecond))
	is.True(ok)
	assert.InDelta(t, 25.0, fps, 1e-9)

	fps, ok = tracker.Sample(base.Add(65 * time.Millisecond))
	is.True(ok)
	assert.InDelta(t, 40.0, fps, 1e-9)
}

func TestTrackerNonIncreasingTimestampIsSuppressed(t *testing.T) {
	is := is.New(t)
	base := time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC)
	tracker := videorate.New()

	tracker.Sample(base)
	_, ok := tracker.Sample(base)
	is.True(!ok)

	// previous is still overwritten so the next reading uses it
	fps, ok := tracker.Sample(base.Add(100 * time.Millisecond))
	is.True(ok)
	assert.InDelta(t, 10.0, fps, 1e-9)
}

func TestTrackerInstancesAreIndependent(t *testing.T) {
	is := is.New(t)
	base := time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC)
	a, b := videorate.New(), videorate.New()

	a.Sample(base)
	_, ok := b.Sample(base.Add(time.Second))
	is.True(!ok)
}

func TestTrackerReset(t *testing.T) {
	is := is.New(t)
	base := time.Date(2021, 3, 17, 13, 0, 0, 0, time.UTC)
	tracker := videorate.New()
	tracker.Sample(base)
	tracker.Reset()
	_, ok := tracker.Sample(base.Add(time.Second))
	is.True(!ok)
}

func TestLabelTruncatesToTwoDecimals(t *testing.T) {
	is := is.New(t)
	is.Equal(videorate.Label(25, true), "FPS: 25.00")
	is.Equal(videorate.Label(29.9999, true), "FPS: 29.99")
	is.Equal(videorate.Label(33.336, true), "FPS: 33.33")
	is.Equal(videorate.Label(29.999999, true), "FPS: 29.99")
	is.Equal(videorate.Label(29.9999996, true), "FPS: 30.00")
}

func TestLabelIsNotSkewedByFloatRepresentation(t *testing.T) {
	is := is.New(t)
	for v, want := range map[float64]string{
		0.29: "FPS: 0.29",
		4.35: "FPS: 4.35",
		0.57: "FPS: 0.57",
		1.15: "FPS: 1.15",
		2.01: "FPS: 2.01",
	} {
		is.Equal(videorate.Label(v, true), want)
	}
	is.Equal(videorate.Label(0, false), "FPS: --")
}
