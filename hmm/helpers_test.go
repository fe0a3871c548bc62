package hmm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// twoStateModel is the sticky two-state chain used across tests:
// self-transition 0.9, cross-transition 0.1.
func twoStateModel(t testing.TB, init []float64) *SparseHMM {
	t.Helper()
	m, err := New(init,
		[]int{0, 0, 1, 1},
		[]int{0, 1, 1, 0},
		[]float64{0.9, 0.1, 0.9, 0.1},
	)
	require.NoError(t, err)
	return m
}

// randomModel builds a sparse model where every state has a self edge plus
// a few random extra edges, some of them duplicates.
func randomModel(t testing.TB, rng *rand.Rand, nState int) *SparseHMM {
	t.Helper()
	init := make([]float64, nState)
	for i := range init {
		if rng.Float64() < 0.8 {
			init[i] = rng.Float64()
		}
	}
	init[rng.Intn(nState)] += 0.1

	var edges []Edge
	for s := 0; s < nState; s++ {
		edges = append(edges, Edge{From: s, To: s, Prob: 0.05 + rng.Float64()})
		extra := rng.Intn(nState + 1)
		for i := 0; i < extra; i++ {
			edges = append(edges, Edge{From: s, To: rng.Intn(nState), Prob: rng.Float64()})
		}
	}
	rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })

	m, err := NewFromEdges(init, edges)
	require.NoError(t, err)
	return m
}

// randomObservations draws T frames; zeroFrac controls sparse zero entries
// and deadFrac whole all-zero frames.
func randomObservations(rng *rand.Rand, T, nState int, zeroFrac, deadFrac float64) [][]float64 {
	obs := make([][]float64, T)
	for t := range obs {
		obs[t] = make([]float64, nState)
		if rng.Float64() < deadFrac {
			continue
		}
		for s := range obs[t] {
			if rng.Float64() >= zeroFrac {
				obs[t][s] = rng.Float64()
			}
		}
	}
	return obs
}
