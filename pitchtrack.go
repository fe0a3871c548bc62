package pitchtrack

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/feature"
	"github.com/ieee0824/pitchtrack-go/metrics"
	"github.com/ieee0824/pitchtrack-go/pitch"
)

// Recognizer is the top-level f0 tracker. It pairs an audio signal with the
// per-hop pitch candidates of an external estimator.
type Recognizer struct {
	Params  pitch.Params
	Logger  *zap.Logger
	Metrics *metrics.Decoder
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger passed to every tracker.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recognizer) {
		r.Logger = l
	}
}

// WithMetrics sets decoder counters shared by every tracker.
func WithMetrics(m *metrics.Decoder) Option {
	return func(r *Recognizer) {
		r.Metrics = m
	}
}

// WithMaxObsLength overrides the decoder lookback in hops.
func WithMaxObsLength(n int) Option {
	return func(r *Recognizer) {
		r.Params.MaxObsLength = n
	}
}

// NewRecognizer creates a Recognizer from a YAML parameter file.
func NewRecognizer(paramsPath string, opts ...Option) (*Recognizer, error) {
	p, err := pitch.LoadParamsFile(paramsPath)
	if err != nil {
		return nil, fmt.Errorf("load params: %w", err)
	}
	return NewRecognizerFromParams(p, opts...)
}

// NewRecognizerFromParams creates a Recognizer from in-memory parameters.
func NewRecognizerFromParams(p pitch.Params, opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		Params: p,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	if err := r.Params.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewTracker returns a fresh real-time tracker configured like r.
func (r *Recognizer) NewTracker() (*pitch.Tracker, error) {
	return pitch.NewTracker(r.Params,
		pitch.WithLogger(r.Logger),
		pitch.WithMetrics(r.Metrics),
	)
}

// TrackSamples runs a tracker over samples, one hop per entry of candidates,
// and returns the f0 contour holding the latest decision for every hop.
// Hop i is analysed on the 2*HopSize samples centred on sample i*HopSize.
func (r *Recognizer) TrackSamples(samples []float64, candidates [][]pitch.Candidate) ([]float64, error) {
	nHop := feature.NumHops(len(samples), r.Params.HopSize)
	if len(candidates) != nHop {
		return nil, fmt.Errorf("got candidates for %d hops, signal has %d", len(candidates), nHop)
	}
	tr, err := r.NewTracker()
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	f0 := make([]float64, nHop)
	for i := 0; i < nHop; i++ {
		frame := feature.CenteredFrame(samples, i*r.Params.HopSize, r.Params.FrameLength())
		out, err := tr.Process(frame, candidates[i])
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		copy(f0[i+1-len(out):i+1], out)
	}
	stats := tr.Decoder().Stats()
	r.Logger.Debug("tracked signal",
		zap.Int("hops", nHop),
		zap.Int("degenerate_frames", stats.DegenerateFrames),
	)
	return f0, nil
}
