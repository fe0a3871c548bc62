package hmm

import "errors"

var (
	// ErrInvalidModel is returned when a SparseHMM cannot be constructed.
	ErrInvalidModel = errors.New("hmm: invalid model")
	// ErrInvalidInput is returned for malformed observations or decode requests.
	ErrInvalidInput = errors.New("hmm: invalid input")
	// ErrInvalidConfig is returned for an unusable decoder configuration.
	ErrInvalidConfig = errors.New("hmm: invalid config")
	// ErrNotEnoughData is returned by StreamDecoder.DecodeStrict when fewer
	// frames are retained than were requested.
	ErrNotEnoughData = errors.New("hmm: not enough data")
)
