package hmm

import (
	"fmt"

	"github.com/ieee0824/pitchtrack-go/internal/mathutil"
)

// StreamDecoder decodes observations incrementally with bounded memory.
// It keeps the rolling delta vector and the backpointer rows of the most
// recent MaxBackward frames in a ring; older rows are overwritten.
//
// After the n-th Feed, Decode(k) for k <= min(n, MaxBackward) returns the
// same states as the last k entries of BatchDecoder.Decode on those n
// frames. Entries that have already left the window are never revised, so a
// path reported earlier for them may disagree with the batch optimum once
// later frames arrive.
//
// A StreamDecoder is not safe for concurrent use; see SyncStreamDecoder.
type StreamDecoder struct {
	rec         *recurrence
	maxBackward int

	// ring[t % maxBackward] holds psi for logical frame t.
	ring   mathutil.IntMat
	frames int

	// argmax of the first observation, reported while only one frame is known
	firstBest int
}

// NewStreamDecoder creates a streaming decoder over m that retains
// maxBackward frames of backpointers.
func NewStreamDecoder(m *SparseHMM, maxBackward int, opts ...Option) (*StreamDecoder, error) {
	if maxBackward <= 0 {
		return nil, fmt.Errorf("%w: maxBackward must be positive, got %d", ErrInvalidConfig, maxBackward)
	}
	return &StreamDecoder{
		rec:         newRecurrence(m, buildOptions(opts)),
		maxBackward: maxBackward,
		ring:        mathutil.NewIntMat(maxBackward, m.NumStates()),
	}, nil
}

// Model returns the model the decoder runs over.
func (d *StreamDecoder) Model() *SparseHMM { return d.rec.model }

// MaxBackward returns the lookback bound.
func (d *StreamDecoder) MaxBackward() int { return d.maxBackward }

// Frames returns the number of frames fed since construction or Reset.
func (d *StreamDecoder) Frames() int { return d.frames }

// Available returns how many trailing frames can currently be decoded.
func (d *StreamDecoder) Available() int {
	return min(d.frames, d.maxBackward)
}

// Stats returns frame counters.
func (d *StreamDecoder) Stats() Stats { return d.rec.stats }

// Feed advances the decoder by one frame. An invalid observation is rejected
// without changing any state.
func (d *StreamDecoder) Feed(obs []float64) error {
	if err := checkObservation(obs, d.rec.model.NumStates()); err != nil {
		return fmt.Errorf("frame %d: %w", d.frames, err)
	}
	row := d.row(d.frames)
	if d.frames == 0 {
		d.rec.first(obs)
		d.firstBest = mathutil.ArgMax(obs)
		mathutil.FillInts(row, 0)
	} else {
		d.rec.next(d.frames, obs, row)
	}
	d.frames++
	return nil
}

// Decode returns the best path over the most recent min(nBackward, Available())
// frames, oldest first. Requests beyond the retained history are clamped;
// use DecodeStrict to get ErrNotEnoughData instead.
func (d *StreamDecoder) Decode(nBackward int) ([]int, error) {
	if nBackward < 0 {
		return nil, fmt.Errorf("%w: nBackward must not be negative, got %d", ErrInvalidInput, nBackward)
	}
	out := make([]int, min(nBackward, d.Available()))
	d.DecodeInto(out)
	return out, nil
}

// DecodeStrict is Decode without clamping.
func (d *StreamDecoder) DecodeStrict(nBackward int) ([]int, error) {
	if nBackward > d.Available() {
		return nil, fmt.Errorf("%w: requested %d frames, %d available", ErrNotEnoughData, nBackward, d.Available())
	}
	return d.Decode(nBackward)
}

// DecodeInto writes the best path over the most recent min(len(dst), Available())
// frames into the start of dst and returns the number of states written.
// It does not allocate.
//
// Decoding leaves the decoder state untouched; the only side effect is the
// decode_calls_total counter when metrics are attached.
func (d *StreamDecoder) DecodeInto(dst []int) int {
	n := min(len(dst), d.Available())
	if n == 0 {
		return 0
	}
	d.rec.opts.metrics.ObserveDecode()
	if d.frames == 1 {
		dst[0] = d.firstBest
		return 1
	}
	dst[n-1] = d.rec.best()
	for i := n - 1; i > 0; i-- {
		// dst[i] is the state at logical frame d.frames-n+i.
		dst[i-1] = d.row(d.frames - n + i)[dst[i]]
	}
	return n
}

// Delta returns a copy of the current rescaled probability vector.
func (d *StreamDecoder) Delta() []float64 {
	return append([]float64(nil), d.rec.delta...)
}

// PsiRows returns a copy of the retained backpointer rows, oldest first.
// The row of the very first frame is all zeros.
func (d *StreamDecoder) PsiRows() [][]int {
	n := d.Available()
	rows := mathutil.NewIntMat(n, d.rec.model.NumStates())
	for i := range rows {
		copy(rows[i], d.row(d.frames-n+i))
	}
	return rows
}

// Reset discards all frames so the decoder can start a new stream.
func (d *StreamDecoder) Reset() {
	d.rec.reset()
	d.frames = 0
	d.firstBest = 0
}

func (d *StreamDecoder) row(frame int) []int {
	return d.ring[frame%d.maxBackward]
}
