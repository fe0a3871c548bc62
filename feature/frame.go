package feature

// CenteredFrame returns size samples centred on center (starting at
// center-size/2). Positions outside samples read as zero.
func CenteredFrame(samples []float64, center, size int) []float64 {
	frame := make([]float64, size)
	start := center - size/2
	lo := max(start, 0)
	hi := min(start+size, len(samples))
	if lo < hi {
		copy(frame[lo-start:], samples[lo:hi])
	}
	return frame
}

// NumHops returns the number of hops needed to cover n samples.
func NumHops(n, hopSize int) int {
	if n <= 0 || hopSize <= 0 {
		return 0
	}
	return (n + hopSize - 1) / hopSize
}
