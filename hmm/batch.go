package hmm

import (
	"fmt"

	"github.com/ieee0824/pitchtrack-go/internal/mathutil"
)

// BatchDecoder computes the globally optimal state path for a complete
// observation sequence. It holds no per-call state and is safe for
// concurrent use.
type BatchDecoder struct {
	model *SparseHMM
	opts  options
}

// NewBatchDecoder creates a batch decoder over m.
func NewBatchDecoder(m *SparseHMM, opts ...Option) *BatchDecoder {
	return &BatchDecoder{model: m, opts: buildOptions(opts)}
}

// Decode runs Viterbi decoding over observations (one row of NumStates
// likelihoods per frame) and returns one state index per frame.
func Decode(m *SparseHMM, observations [][]float64, opts ...Option) ([]int, error) {
	return NewBatchDecoder(m, opts...).Decode(observations)
}

// Decode runs the forward recurrence over every frame, then backtracks once.
func (d *BatchDecoder) Decode(observations [][]float64) ([]int, error) {
	nState := d.model.NumStates()
	for t, obs := range observations {
		if err := checkObservation(obs, nState); err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
	}

	T := len(observations)
	switch T {
	case 0:
		return []int{}, nil
	case 1:
		// The transition model plays no part in a single frame.
		d.opts.metrics.ObserveFrame(false)
		d.opts.metrics.ObserveDecode()
		return []int{mathutil.ArgMax(observations[0])}, nil
	}

	// psi[t][s] = best predecessor of state s at frame t; row 0 stays zero.
	psi := mathutil.NewIntMat(T, nState)

	rec := newRecurrence(d.model, d.opts)
	rec.first(observations[0])
	for t := 1; t < T; t++ {
		rec.next(t, observations[t], psi[t])
	}

	path := make([]int, T)
	path[T-1] = rec.best()
	for t := T - 1; t > 0; t-- {
		path[t-1] = psi[t][path[t]]
	}
	d.opts.metrics.ObserveDecode()
	return path, nil
}
