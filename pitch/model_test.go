package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Shape(t *testing.T) {
	p := DefaultParams(256, 44100, 4, 3, 100)
	m, err := NewModel(p)
	require.NoError(t, err)

	nBin := 20
	h := 8 // round(3 * 5 / 2)
	assert.Equal(t, 2*nBin, m.NumStates())
	assert.Equal(t, 4*(nBin*(2*h+1)-h*(h+1)), m.NumTransitions())
	for _, v := range m.Init() {
		assert.InDelta(t, 1.0/40, v, 1e-15)
	}
}

func TestNewModel_OutgoingSumsToOne(t *testing.T) {
	p := DefaultParams(256, 44100, 3, 1.2, 100)
	m, err := NewModel(p)
	require.NoError(t, err)

	out := make([]float64, m.NumStates())
	for _, e := range m.Edges() {
		out[e.From] += e.Prob
	}
	for s, sum := range out {
		assert.InDelta(t, 1.0, sum, 1e-12, "state %d", s)
	}
}

func TestNewModel_PrefersSmallJumps(t *testing.T) {
	p := DefaultParams(256, 44100, 4, 3, 100)
	p.TransSelf = 0.9
	m, err := NewModel(p)
	require.NoError(t, err)

	nBin := p.NumBins()
	prob := map[[2]int]float64{}
	for _, e := range m.Edges() {
		prob[[2]int{e.From, e.To}] = e.Prob
	}

	// Voiced bin 10: staying beats moving, nearer beats farther.
	assert.Greater(t, prob[[2]int{10, 10}], prob[[2]int{10, 11}])
	assert.Greater(t, prob[[2]int{10, 11}], prob[[2]int{10, 13}])
	assert.Equal(t, prob[[2]int{10, 9}], prob[[2]int{10, 11}])
	// Voicing flips carry (1-TransSelf)/TransSelf of the stay weight.
	assert.InDelta(t, prob[[2]int{10, 10}]/9, prob[[2]int{10, 10 + nBin}], 1e-12)
	assert.InDelta(t, prob[[2]int{10 + nBin, 10}], prob[[2]int{10, 10 + nBin}], 1e-15)
	// No edge beyond the jump limit.
	_, ok := prob[[2]int{10, 19}]
	assert.False(t, ok)
}

func TestNewModel_InvalidParams(t *testing.T) {
	_, err := NewModel(DefaultParams(256, 44100, 0, 3, 100))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

// clippedEdgeCount counts, by brute force, the voiced bin pairs at most h
// apart, times the four voicing combinations.
func clippedEdgeCount(nBin, h int) int {
	n := 0
	for from := 0; from < nBin; from++ {
		for to := 0; to < nBin; to++ {
			if d := from - to; d <= h && -d <= h {
				n++
			}
		}
	}
	return 4 * n
}

func TestNewModel_EdgeCount(t *testing.T) {
	tests := []struct {
		name      string
		nSemitone int
		maxTrans  float64
		wantH     int
	}{
		{"narrow jump", 4, 3, 8},
		{"jump just under range", 3, 5, 13},
		{"jump wider than range", 2, 5, 13},
		{"jump over twice the range", 2, 8, 20},
		{"no jump", 3, 0.1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams(256, 44100, tt.nSemitone, tt.maxTrans, 100)
			require.Equal(t, tt.wantH, halfMaxTransBin(p))

			m, err := NewModel(p)
			require.NoError(t, err)
			assert.Equal(t, clippedEdgeCount(p.NumBins(), tt.wantH), m.NumTransitions())
			assert.Equal(t, numEdges(p.NumBins(), tt.wantH), m.NumTransitions())
		})
	}
}

func TestNewModel_WideJumpFromRange(t *testing.T) {
	// A long hop at a low sample rate allows jumps far beyond the pitch range.
	p := ParamsFromRange(4096, 8000, 100, 200)
	require.NoError(t, p.Validate())
	nBin := p.NumBins()
	require.Equal(t, 60, nBin)
	require.GreaterOrEqual(t, halfMaxTransBin(p), 2*nBin)

	m, err := NewModel(p)
	require.NoError(t, err)
	// Every voiced bin reaches every other one in both voicing states.
	assert.Equal(t, 4*nBin*nBin, m.NumTransitions())

	out := make([]float64, m.NumStates())
	for _, e := range m.Edges() {
		require.Greater(t, e.Prob, 0.0)
		out[e.From] += e.Prob
	}
	for s, sum := range out {
		assert.InDelta(t, 1.0, sum, 1e-12, "state %d", s)
	}

	tr, err := NewTracker(p)
	require.NoError(t, err)
	assert.Equal(t, 2*nBin, tr.Decoder().Model().NumStates())
}
