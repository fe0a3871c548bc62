package pitch

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/hmm"
	"github.com/ieee0824/pitchtrack-go/metrics"
)

// hopRecord is what the tracker remembers about one past hop.
type hopRecord struct {
	candidates []Candidate
	silent     bool
}

// Tracker turns per-hop pitch candidates into an f0 contour in real time.
// Each call to Process re-decodes the trailing MaxObsLength hops, so earlier
// hops may change until they leave the window.
//
// Output values: positive is a voiced f0 in Hz, negative is an unvoiced hop
// (its magnitude is the bin frequency the decoder settled on), zero is a
// silent hop.
type Tracker struct {
	p      Params
	dec    *hmm.StreamDecoder
	logger *zap.Logger

	obs  []float64
	path []int
	hist []hopRecord // oldest first, at most MaxObsLength
}

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerConfig)

type trackerConfig struct {
	logger  *zap.Logger
	metrics *metrics.Decoder
}

// WithLogger sets the tracker and decoder logger.
func WithLogger(l *zap.Logger) TrackerOption {
	return func(c *trackerConfig) { c.logger = l }
}

// WithMetrics attaches decoder counters.
func WithMetrics(m *metrics.Decoder) TrackerOption {
	return func(c *trackerConfig) { c.metrics = m }
}

// NewTracker builds the pitch HMM for p and a streaming decoder over it.
func NewTracker(p Params, opts ...TrackerOption) (*Tracker, error) {
	cfg := trackerConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	model, err := NewModel(p)
	if err != nil {
		return nil, err
	}
	dec, err := hmm.NewStreamDecoder(model, p.MaxObsLength,
		hmm.WithLogger(cfg.logger),
		hmm.WithMetrics(cfg.metrics),
	)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("pitch tracker ready",
		zap.Int("states", model.NumStates()),
		zap.Int("transitions", model.NumTransitions()),
		zap.Int("lookback", p.MaxObsLength),
	)
	return &Tracker{
		p:      p,
		dec:    dec,
		logger: cfg.logger,
		obs:    make([]float64, model.NumStates()),
		path:   make([]int, p.MaxObsLength),
		hist:   make([]hopRecord, 0, p.MaxObsLength),
	}, nil
}

// Params returns the tracker parameters.
func (t *Tracker) Params() Params { return t.p }

// Decoder returns the underlying streaming decoder.
func (t *Tracker) Decoder() *hmm.StreamDecoder { return t.dec }

// NextOutputLength returns the length of the slice the next Process call returns.
func (t *Tracker) NextOutputLength() int {
	return min(t.dec.Frames()+1, t.p.MaxObsLength)
}

// Process consumes one hop: frame holds the 2*HopSize samples around it and
// candidates the estimator output for it. It returns f0 for the trailing
// NextOutputLength() hops, oldest first.
func (t *Tracker) Process(frame []float64, candidates []Candidate) ([]float64, error) {
	if len(frame) != t.p.FrameLength() {
		return nil, fmt.Errorf("%w: frame has %d samples, want %d", hmm.ErrInvalidInput, len(frame), t.p.FrameLength())
	}

	t.p.Observation(candidates, t.obs)
	if err := t.dec.Feed(t.obs); err != nil {
		return nil, err
	}
	n := t.dec.DecodeInto(t.path)

	if len(t.hist) == t.p.MaxObsLength {
		copy(t.hist, t.hist[1:])
		t.hist = t.hist[:len(t.hist)-1]
	}
	t.hist = append(t.hist, hopRecord{
		candidates: append([]Candidate(nil), candidates...),
		silent:     isSilent(frame, t.p.EnergyThreshold),
	})

	out := make([]float64, n)
	for i, state := range t.path[:n] {
		out[i] = t.stateFreq(state, t.hist[i].candidates)
	}
	t.backfillOnsets(out)
	for i := range out {
		if out[i] > 0 && t.hist[i].silent {
			out[i] = 0
		}
	}
	return out, nil
}

// Reset forgets all hops.
func (t *Tracker) Reset() {
	t.dec.Reset()
	t.hist = t.hist[:0]
}

// stateFreq maps a decoded state to a frequency. A voiced state snaps to the
// nearest candidate when that candidate lies within one bin of the state.
func (t *Tracker) stateFreq(state int, candidates []Candidate) float64 {
	p := t.p
	nBin := p.NumBins()
	if state >= nBin {
		return -p.binFreq(state - nBin)
	}

	hmmFreq := p.binFreq(state)
	if len(candidates) == 0 {
		return hmmFreq
	}
	nearest := candidates[0].Freq
	nearestDistance := math.Inf(1)
	for _, c := range candidates {
		if d := math.Abs(c.Freq - hmmFreq); d < nearestDistance {
			nearestDistance = d
			nearest = c.Freq
		}
	}
	if nearest < p.MinFreq || nearest > p.MaxFreq() || math.Abs(p.binOf(nearest)-float64(state)) > 1.0 {
		return hmmFreq
	}
	return nearest
}

// backfillOnsets extends every unvoiced->voiced onset backwards by the
// number of hops the analysis window of the new pitch spans.
func (t *Tracker) backfillOnsets(out []float64) {
	frameLen := t.p.FrameLength()
	for i := 1; i < len(out); i++ {
		if out[i-1] > 0 || out[i] <= 0 {
			continue
		}
		windowSize := max(int(math.Ceil(t.p.SampleRate/out[i]*4.0)), frameLen)
		if windowSize%2 != 0 {
			windowSize++
		}
		offset := int(math.Round(float64(windowSize) / float64(frameLen)))
		for j := max(0, i-offset); j < i; j++ {
			out[j] = out[i]
		}
	}
}

// isSilent reports whether the DC-removed mean energy of frame is below threshold.
func isSilent(frame []float64, threshold float64) bool {
	mean := 0.0
	for _, v := range frame {
		mean += v
	}
	mean /= float64(len(frame))

	energy := 0.0
	for _, v := range frame {
		d := v - mean
		energy += d * d
	}
	energy /= float64(len(frame))
	return energy < threshold
}
