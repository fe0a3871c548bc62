package hmm

import (
	"math/rand"
	"testing"
)

// bandedModel mimics a pitch HMM: each state reaches its neighbours within
// halfWidth, so nTrans is about nState*(2*halfWidth+1).
func bandedModel(b *testing.B, nState, halfWidth int) *SparseHMM {
	init := make([]float64, nState)
	var edges []Edge
	for s := 0; s < nState; s++ {
		init[s] = 1.0 / float64(nState)
		lo := max(0, s-halfWidth)
		hi := min(nState-1, s+halfWidth)
		for to := lo; to <= hi; to++ {
			edges = append(edges, Edge{From: s, To: to, Prob: 1.0 / float64(hi-lo+1)})
		}
	}
	m, err := NewFromEdges(init, edges)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkStreamDecoder_Feed(b *testing.B) {
	m := bandedModel(b, 480, 8)
	rng := rand.New(rand.NewSource(1))
	obs := randomObservations(rng, 64, m.NumStates(), 0.5, 0)
	d, err := NewStreamDecoder(m, 128)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := d.Feed(obs[i%len(obs)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStreamDecoder_DecodeInto(b *testing.B) {
	m := bandedModel(b, 480, 8)
	rng := rand.New(rand.NewSource(2))
	d, err := NewStreamDecoder(m, 128)
	if err != nil {
		b.Fatal(err)
	}
	for _, o := range randomObservations(rng, 256, m.NumStates(), 0.5, 0) {
		if err := d.Feed(o); err != nil {
			b.Fatal(err)
		}
	}
	dst := make([]int, 128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.DecodeInto(dst)
	}
}

func BenchmarkDecode_Batch(b *testing.B) {
	m := bandedModel(b, 480, 8)
	rng := rand.New(rand.NewSource(3))
	obs := randomObservations(rng, 500, m.NumStates(), 0.5, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(m, obs); err != nil {
			b.Fatal(err)
		}
	}
}
