package pitch

import (
	"math"

	"github.com/ieee0824/pitchtrack-go/internal/mathutil"
)

// obsFloor keeps every state reachable when the candidates are empty.
const obsFloor = 1e-5

// Candidate is one pitch hypothesis from the candidate estimator.
type Candidate struct {
	Freq float64 `yaml:"freq"` // Hz; a non-positive value ends the candidate list
	Prob float64 `yaml:"prob"`
}

// Observation fills dst (length NumStates) with the emission likelihoods for
// one hop. Candidates outside [MinFreq, MaxFreq] are ignored. A fraction
// YinTrust of the candidate mass goes to the voiced bins and the rest is
// spread evenly over the unvoiced states.
func (p Params) Observation(candidates []Candidate, dst []float64) {
	nBin := p.NumBins()
	maxFreq := p.MaxFreq()
	clear(dst)

	pitched := 0.0
	for _, c := range candidates {
		if c.Freq < p.MinFreq || c.Freq > maxFreq {
			if c.Freq <= 0 {
				break
			}
			continue
		}
		bin := min(max(int(math.Round(p.binOf(c.Freq))), 0), nBin-1)
		dst[bin] = c.Prob
		pitched += c.Prob
	}

	reallyPitched := p.YinTrust * pitched
	if pitched > 0 {
		voiced := dst[:nBin]
		mathutil.ScaleVec(voiced, reallyPitched/pitched, voiced)
	}
	unvoiced := (1.0 - reallyPitched) / float64(nBin)
	for i := nBin; i < 2*nBin; i++ {
		dst[i] = unvoiced
	}
	for i := range dst {
		dst[i] = max(0, dst[i]) + obsFloor
	}
}
