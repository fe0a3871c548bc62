package metrics

import "github.com/prometheus/client_golang/prometheus"

// Decoder holds the counters shared by the batch and streaming decoders.
// A nil *Decoder is valid and records nothing.
type Decoder struct {
	Frames           prometheus.Counter
	DegenerateFrames prometheus.Counter
	DecodeCalls      prometheus.Counter
}

// NewDecoder creates decoder counters under namespace and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewDecoder(reg prometheus.Registerer, namespace string) *Decoder {
	d := &Decoder{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "viterbi",
			Name:      "frames_total",
			Help:      "Observation frames consumed by the forward recurrence.",
		}),
		DegenerateFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "viterbi",
			Name:      "degenerate_frames_total",
			Help:      "Frames whose probability mass collapsed to zero and were reset to uniform.",
		}),
		DecodeCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "viterbi",
			Name:      "decode_calls_total",
			Help:      "Backtrack requests served.",
		}),
	}
	if reg != nil {
		reg.MustRegister(d.Frames, d.DegenerateFrames, d.DecodeCalls)
	}
	return d
}

// ObserveFrame records one forward step.
func (d *Decoder) ObserveFrame(degenerate bool) {
	if d == nil {
		return
	}
	d.Frames.Inc()
	if degenerate {
		d.DegenerateFrames.Inc()
	}
}

// ObserveDecode records one backtrack.
func (d *Decoder) ObserveDecode() {
	if d == nil {
		return
	}
	d.DecodeCalls.Inc()
}
