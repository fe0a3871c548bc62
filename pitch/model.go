package pitch

import (
	"math"

	"github.com/ieee0824/pitchtrack-go/hmm"
	"github.com/ieee0824/pitchtrack-go/internal/mathutil"
)

// NewModel builds the voiced/unvoiced pitch HMM.
//
// States [0, nBin) are voiced pitch bins and [nBin, 2*nBin) their unvoiced
// counterparts. From every bin the pitch may move by at most
// round(MaxTransSemitone*BinPerSemitone/2) bins with a triangular preference
// for small jumps; TransSelf is the probability of keeping the voicing state.
func NewModel(p Params) (*hmm.SparseHMM, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	nBin := p.NumBins()
	nState := p.NumStates()
	h := halfMaxTransBin(p)

	init := mathutil.NewVecFill(nState, 1.0/float64(nState))

	edges := make([]hmm.Edge, 0, numEdges(nBin, h))
	weights := make([]float64, 0, min(2*h+1, nBin))
	for bin := 0; bin < nBin; bin++ {
		theoreticalMin := bin - h
		lo, hi := jumpRange(bin, h, nBin)

		weights = weights[:0]
		sum := 0.0
		for i := lo; i <= hi; i++ {
			var w float64
			if i <= bin {
				w = float64(i-theoreticalMin) + 1.0
			} else {
				w = float64(bin-theoreticalMin) + 1.0 - float64(i-bin)
			}
			weights = append(weights, w)
			sum += w
		}

		for i := lo; i <= hi; i++ {
			w := weights[i-lo] / sum
			stay := w * p.TransSelf
			flip := w * (1.0 - p.TransSelf)
			edges = append(edges,
				hmm.Edge{From: bin, To: i, Prob: stay},
				hmm.Edge{From: bin, To: i + nBin, Prob: flip},
				hmm.Edge{From: bin + nBin, To: i + nBin, Prob: stay},
				hmm.Edge{From: bin + nBin, To: i, Prob: flip},
			)
		}
	}
	return hmm.NewFromEdges(init, edges)
}

func halfMaxTransBin(p Params) int {
	return int(math.Round(p.MaxTransSemitone * float64(p.BinPerSemitone) / 2.0))
}

// jumpRange returns the voiced bins reachable from bin, clipped to [0, nBin).
func jumpRange(bin, h, nBin int) (lo, hi int) {
	return max(bin-h, 0), min(bin+h, nBin-1)
}

// numEdges counts the edges NewModel emits: four per reachable bin pair.
func numEdges(nBin, h int) int {
	n := 0
	for bin := 0; bin < nBin; bin++ {
		lo, hi := jumpRange(bin, h, nBin)
		n += hi - lo + 1
	}
	return 4 * n
}
