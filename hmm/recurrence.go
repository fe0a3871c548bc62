package hmm

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/internal/mathutil"
)

// Stats counts what a decoder has processed.
type Stats struct {
	Frames           int
	DegenerateFrames int
}

// recurrence owns the rolling delta vector and applies one frame at a time.
// It is shared by the batch and streaming decoders so both produce
// bit-identical probabilities for the same input.
type recurrence struct {
	model *SparseHMM
	opts  options

	delta []float64 // rescaled best-path probabilities at the current frame
	temp  []float64
	stats Stats
}

func newRecurrence(m *SparseHMM, opts options) *recurrence {
	n := m.NumStates()
	return &recurrence{
		model: m,
		opts:  opts,
		delta: mathutil.NewVec(n),
		temp:  mathutil.NewVec(n),
	}
}

// first seeds delta from init and the first observation.
func (r *recurrence) first(obs []float64) {
	mathutil.MulVec(r.delta, r.model.init, obs)
	mathutil.Normalize(r.delta)
	r.stats.Frames++
	r.opts.metrics.ObserveFrame(false)
}

// next advances delta by one frame and writes the backpointers into psi.
// It reports whether the frame was degenerate: no mass left, or mass that
// overflowed to +Inf or NaN because the inputs were not probabilities.
func (r *recurrence) next(frame int, obs []float64, psi []int) bool {
	r.model.forward(r.delta, obs, r.temp, psi)
	r.stats.Frames++
	if sum := mathutil.SumVec(r.temp); sum > 0 && !math.IsInf(sum, 1) {
		for i, v := range r.temp {
			r.delta[i] = v / sum
		}
		r.opts.metrics.ObserveFrame(false)
		return false
	}
	n := len(r.delta)
	r.opts.logger.Warn("viterbi decoder lost all probability mass; resetting to uniform",
		zap.Int("frame", frame),
		zap.Int("states", n),
	)
	mathutil.FillVec(r.delta, 1.0/float64(n))
	r.stats.DegenerateFrames++
	r.opts.metrics.ObserveFrame(true)
	return true
}

func (r *recurrence) reset() {
	mathutil.FillVec(r.delta, 0)
	r.stats = Stats{}
}

// best returns the most probable state at the current frame.
func (r *recurrence) best() int {
	return mathutil.ArgMax(r.delta)
}

// checkObservation validates one observation vector against nState.
func checkObservation(obs []float64, nState int) error {
	if len(obs) != nState {
		return fmt.Errorf("%w: observation has %d entries, want %d", ErrInvalidInput, len(obs), nState)
	}
	for i, v := range obs {
		if !(v >= 0) || math.IsInf(v, 1) {
			return fmt.Errorf("%w: observation[%d] = %v is not a finite non-negative value", ErrInvalidInput, i, v)
		}
	}
	return nil
}
