package pitch

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParams is returned when tracker parameters are out of range.
var ErrInvalidParams = errors.New("pitch: invalid params")

// Params configures the pitch HMM and the real-time tracker.
type Params struct {
	SampleRate       float64 `yaml:"sample_rate"`
	HopSize          int     `yaml:"hop_size"`           // samples per hop; frames are 2*HopSize long
	NumSemitone      int     `yaml:"num_semitone"`       // pitch range above MinFreq
	MaxTransSemitone float64 `yaml:"max_trans_semitone"` // largest pitch jump per hop
	MinFreq          float64 `yaml:"min_freq"`
	BinPerSemitone   int     `yaml:"bin_per_semitone"`
	TransSelf        float64 `yaml:"trans_self"`       // probability of keeping the voicing state
	YinTrust         float64 `yaml:"yin_trust"`        // share of candidate mass treated as voiced
	EnergyThreshold  float64 `yaml:"energy_threshold"` // mean energy below which a hop is silent
	MaxObsLength     int     `yaml:"max_obs_length"`   // decoder lookback in hops
}

// DefaultParams returns parameters with the usual tuning for the optional fields.
func DefaultParams(hopSize int, sampleRate float64, nSemitone int, maxTransSemitone, minFreq float64) Params {
	return Params{
		SampleRate:       sampleRate,
		HopSize:          hopSize,
		NumSemitone:      nSemitone,
		MaxTransSemitone: maxTransSemitone,
		MinFreq:          minFreq,
		BinPerSemitone:   5,
		TransSelf:        0.999,
		YinTrust:         0.5,
		EnergyThreshold:  1e-8,
		MaxObsLength:     128,
	}
}

// ParamsFromRange derives the semitone range and the per-hop jump limit from
// the analysis hop and the frequency range of the candidate estimator.
// The jump limit is 3 semitones per 256 samples at 44.1kHz, scaled to the hop.
func ParamsFromRange(hopSize int, sampleRate, minFreq, maxFreq float64) Params {
	nSemitone := int(math.Ceil(math.Log2(maxFreq/minFreq) * 12.0))
	maxTrans := (float64(hopSize) / sampleRate) / (256.0 / 44100.0) * 3.0
	return DefaultParams(hopSize, sampleRate, nSemitone, maxTrans, minFreq)
}

// Validate reports every out-of-range field.
func (p Params) Validate() error {
	var result *multierror.Error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			result = multierror.Append(result, fmt.Errorf(format, args...))
		}
	}
	check(p.HopSize > 0, "hop_size %d must be positive", p.HopSize)
	check(p.SampleRate > 0, "sample_rate %v must be positive", p.SampleRate)
	check(p.NumSemitone > 0, "num_semitone %d must be positive", p.NumSemitone)
	check(p.MaxTransSemitone > 0, "max_trans_semitone %v must be positive", p.MaxTransSemitone)
	check(p.MinFreq > 0 && p.MinFreq < p.SampleRate/2, "min_freq %v must be in (0, nyquist)", p.MinFreq)
	check(p.BinPerSemitone > 0, "bin_per_semitone %d must be positive", p.BinPerSemitone)
	check(p.TransSelf >= 0 && p.TransSelf <= 1, "trans_self %v must be in [0, 1]", p.TransSelf)
	check(p.YinTrust >= 0 && p.YinTrust <= 1, "yin_trust %v must be in [0, 1]", p.YinTrust)
	check(p.EnergyThreshold >= 0, "energy_threshold %v must not be negative", p.EnergyThreshold)
	check(p.MaxObsLength > 0, "max_obs_length %d must be positive", p.MaxObsLength)
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// NumBins returns the number of voiced pitch bins.
func (p Params) NumBins() int { return p.NumSemitone * p.BinPerSemitone }

// NumStates returns the HMM state count: voiced bins followed by unvoiced bins.
func (p Params) NumStates() int { return 2 * p.NumBins() }

// MaxFreq returns the top of the tracked range.
func (p Params) MaxFreq() float64 {
	return p.MinFreq * math.Pow(2, float64(p.NumSemitone)/12.0)
}

// FrameLength returns the number of samples Tracker.Process expects.
func (p Params) FrameLength() int { return 2 * p.HopSize }

// binOf returns the fractional bin position of freq.
func (p Params) binOf(freq float64) float64 {
	return math.Log2(freq/p.MinFreq) * 12.0 * float64(p.BinPerSemitone)
}

// binFreq returns the centre frequency of a voiced bin.
func (p Params) binFreq(bin int) float64 {
	return p.MinFreq * math.Pow(2, float64(bin)/(12.0*float64(p.BinPerSemitone)))
}

type paramsFile struct {
	Params  `yaml:",inline"`
	MaxFreq float64 `yaml:"max_freq"`
}

// LoadParams reads YAML parameters. Optional fields default as in
// DefaultParams. When num_semitone is omitted it is derived from max_freq,
// and an omitted max_trans_semitone is derived from the hop as in
// ParamsFromRange.
func LoadParams(r io.Reader) (Params, error) {
	f := paramsFile{Params: DefaultParams(0, 0, 0, 0, 0)}
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return Params{}, fmt.Errorf("decode params: %w", err)
	}
	p := f.Params
	if p.NumSemitone == 0 && f.MaxFreq > 0 && p.MinFreq > 0 {
		p.NumSemitone = int(math.Ceil(math.Log2(f.MaxFreq/p.MinFreq) * 12.0))
	}
	if p.MaxTransSemitone == 0 && p.SampleRate > 0 {
		p.MaxTransSemitone = (float64(p.HopSize) / p.SampleRate) / (256.0 / 44100.0) * 3.0
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadParamsFile reads YAML parameters from path.
func LoadParamsFile(path string) (p Params, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Params{}, fmt.Errorf("open params: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return LoadParams(f)
}
