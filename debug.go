package verdant

import (
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
)

// globalDebug mirrors the most recently set Stage debug flag so that element
// and choreography code (which lacks a Stage pointer) can check it cheaply.
// Only valid with a single Stage.
var globalDebug bool

// debugStats holds per-frame timing and counts. Only populated when
// Stage.debug is true.
type debugStats struct {
	updateTime    time.Duration
	drawTime      time.Duration
	particleCount int
	fieldCount    int
	regCount      int
	offset        float64
}

// debugWindow is the number of frames summarised per frame-time report.
const debugWindow = 120

// frameTimes is a rolling window of frame durations in milliseconds.
type frameTimes struct {
	samples []float64
}

func (f *frameTimes) add(d time.Duration) bool {
	f.samples = append(f.samples, float64(d)/float64(time.Millisecond))
	return len(f.samples) >= debugWindow
}

// summary returns mean and standard deviation and resets the window.
func (f *frameTimes) summary() (mean, stddev float64) {
	mean, stddev = stat.MeanStdDev(f.samples, nil)
	f.samples = f.samples[:0]
	return mean, stddev
}

// debugLog prints timing and counts to stderr.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[verdant] update: %v | draw: %v | fields: %d | particles: %d | registrations: %d | offset: %.1f\n",
		stats.updateTime, stats.drawTime, stats.fieldCount, stats.particleCount, stats.regCount, stats.offset)
	if s.frameTimes.add(stats.updateTime + stats.drawTime) {
		mean, sd := s.frameTimes.summary()
		_, _ = fmt.Fprintf(os.Stderr, "[verdant] frame time over %d frames: mean %.3fms, stddev %.3fms\n",
			debugWindow, mean, sd)
	}
}

// debugWarnf prints a warning to stderr when debug mode is on.
func debugWarnf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[verdant] warning: "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("verdant debug: %s on disposed element %q (ID was %d)", op, e.Name, e.ID))
	}
}
