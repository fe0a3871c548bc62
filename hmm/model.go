package hmm

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Edge is a directed transition between two states.
type Edge struct {
	From int
	To   int
	Prob float64
}

// SparseHMM is an immutable HMM whose transitions are an explicit edge list.
// It is safe for concurrent use by any number of decoders.
type SparseHMM struct {
	init  []float64
	edges []Edge // construction order

	// Incoming index: in[inOff[s]:inOff[s+1]] are the edges ending at s,
	// in construction order.
	in    []Edge
	inOff []int

	// Outgoing index, same layout keyed by From.
	out    []Edge
	outOff []int
}

// New creates a SparseHMM from the initial distribution and parallel
// from/to/prob slices. All inputs are copied.
func New(init []float64, from, to []int, prob []float64) (*SparseHMM, error) {
	if len(from) != len(to) || len(to) != len(prob) {
		return nil, fmt.Errorf("%w: edge slices differ in length (from=%d to=%d prob=%d)",
			ErrInvalidModel, len(from), len(to), len(prob))
	}
	edges := make([]Edge, len(from))
	for i := range edges {
		edges[i] = Edge{From: from[i], To: to[i], Prob: prob[i]}
	}
	return newModel(init, edges)
}

// NewFromEdges creates a SparseHMM from the initial distribution and an edge list.
func NewFromEdges(init []float64, edges []Edge) (*SparseHMM, error) {
	return newModel(init, append([]Edge(nil), edges...))
}

// newModel takes ownership of edges.
func newModel(init []float64, edges []Edge) (*SparseHMM, error) {
	if err := validate(init, edges); err != nil {
		return nil, err
	}
	nState := len(init)
	m := &SparseHMM{
		init:  append([]float64(nil), init...),
		edges: edges,
	}
	m.in, m.inOff = indexEdges(edges, nState, func(e Edge) int { return e.To })
	m.out, m.outOff = indexEdges(edges, nState, func(e Edge) int { return e.From })
	return m, nil
}

// indexEdges groups a copy of edges by key, keeping construction order within
// a group. Group s is sorted[off[s]:off[s+1]].
func indexEdges(edges []Edge, nState int, key func(Edge) int) (sorted []Edge, off []int) {
	sorted = append([]Edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})
	off = make([]int, nState+1)
	for _, e := range sorted {
		off[key(e)+1]++
	}
	for s := 0; s < nState; s++ {
		off[s+1] += off[s]
	}
	return sorted, off
}

func validate(init []float64, edges []Edge) error {
	var result *multierror.Error
	nState := len(init)
	if nState == 0 {
		result = multierror.Append(result, fmt.Errorf("init is empty"))
	}
	for i, p := range init {
		if !isProb(p) {
			result = multierror.Append(result, fmt.Errorf("init[%d] = %v is not a finite non-negative value", i, p))
		}
	}
	for i, e := range edges {
		if e.From < 0 || e.From >= nState {
			result = multierror.Append(result, fmt.Errorf("edge %d: from %d out of range [0, %d)", i, e.From, nState))
		}
		if e.To < 0 || e.To >= nState {
			result = multierror.Append(result, fmt.Errorf("edge %d: to %d out of range [0, %d)", i, e.To, nState))
		}
		if !isProb(e.Prob) {
			result = multierror.Append(result, fmt.Errorf("edge %d: prob %v is not a finite non-negative value", i, e.Prob))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return nil
}

func isProb(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// NumStates returns the number of hidden states.
func (m *SparseHMM) NumStates() int { return len(m.init) }

// NumTransitions returns the number of edges.
func (m *SparseHMM) NumTransitions() int { return len(m.edges) }

// Init returns a copy of the initial-state distribution.
func (m *SparseHMM) Init() []float64 {
	return append([]float64(nil), m.init...)
}

// Edges returns a copy of the edge list in construction order.
func (m *SparseHMM) Edges() []Edge {
	return append([]Edge(nil), m.edges...)
}

// Incoming returns a copy of the edges ending at state, in construction order.
func (m *SparseHMM) Incoming(state int) []Edge {
	if state < 0 || state >= len(m.init) {
		return nil
	}
	return append([]Edge(nil), m.in[m.inOff[state]:m.inOff[state+1]]...)
}

// Outgoing returns a copy of the edges leaving state, in construction order.
func (m *SparseHMM) Outgoing(state int) []Edge {
	if state < 0 || state >= len(m.init) {
		return nil
	}
	return append([]Edge(nil), m.out[m.outOff[state]:m.outOff[state+1]]...)
}

// forward computes one step of the Viterbi recurrence:
// next[s] = max over edges e ending at s of prev[e.From]*e.Prob, times obs[s].
// psi[s] receives the winning predecessor, or 0 when no candidate exceeds zero.
func (m *SparseHMM) forward(prev, obs, next []float64, psi []int) {
	for s := range next {
		best := 0.0
		arg := 0
		for _, e := range m.in[m.inOff[s]:m.inOff[s+1]] {
			if c := prev[e.From] * e.Prob; c > best {
				best = c
				arg = e.From
			}
		}
		next[s] = best * obs[s]
		psi[s] = arg
	}
}
