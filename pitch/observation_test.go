package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservation(t *testing.T) {
	p := DefaultParams(256, 44100, 12, 3, 100)
	nBin := p.NumBins() // 60
	dst := make([]float64, p.NumStates())
	for i := range dst {
		dst[i] = 42 // stale values must be cleared
	}

	// log2(1.5) * 60 = 35.1 -> bin 35
	p.Observation([]Candidate{{Freq: 150, Prob: 0.8}}, dst)

	assert.InDelta(t, 0.8*0.5+obsFloor, dst[35], 1e-12)
	assert.InDelta(t, obsFloor, dst[34], 1e-15)
	unvoiced := (1-0.4)/float64(nBin) + obsFloor
	for i := nBin; i < 2*nBin; i++ {
		assert.InDelta(t, unvoiced, dst[i], 1e-12)
	}
}

func TestObservation_CandidateFiltering(t *testing.T) {
	p := DefaultParams(256, 44100, 12, 3, 100)
	dst := make([]float64, p.NumStates())

	p.Observation([]Candidate{
		{Freq: 50, Prob: 0.9},  // below range, skipped
		{Freq: 150, Prob: 0.4}, // bin 35
		{Freq: 0, Prob: 0},     // terminates the list
		{Freq: 120, Prob: 0.5}, // never reached
	}, dst)

	assert.InDelta(t, 0.4*0.5+obsFloor, dst[35], 1e-12)
	// log2(1.2) * 60 = 15.8 -> bin 16
	assert.InDelta(t, obsFloor, dst[16], 1e-15)
	assert.InDelta(t, (1-0.2)/60+obsFloor, dst[60], 1e-12)
}

func TestObservation_TopOfRangeClipsToLastBin(t *testing.T) {
	p := DefaultParams(256, 44100, 12, 3, 100)
	dst := make([]float64, p.NumStates())
	p.Observation([]Candidate{{Freq: p.MaxFreq(), Prob: 1}}, dst)
	assert.InDelta(t, 0.5+obsFloor, dst[p.NumBins()-1], 1e-12)
}

func TestObservation_NoCandidates(t *testing.T) {
	p := DefaultParams(256, 44100, 12, 3, 100)
	dst := make([]float64, p.NumStates())
	p.Observation(nil, dst)

	for i := 0; i < p.NumBins(); i++ {
		assert.InDelta(t, obsFloor, dst[i], 1e-15)
	}
	for i := p.NumBins(); i < p.NumStates(); i++ {
		assert.InDelta(t, 1.0/60+obsFloor, dst[i], 1e-12)
	}
}
