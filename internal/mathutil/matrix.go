package mathutil

// Vec is a float64 vector.
type Vec = []float64

// IntMat is a 2D int matrix stored as row-major [][]int.
type IntMat = [][]int

// NewIntMat creates a rows x cols int matrix initialized to zero.
// Rows share one backing array.
func NewIntMat(rows, cols int) IntMat {
	m := make(IntMat, rows)
	data := make([]int, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// NewVec creates a vector of length n initialized to zero.
func NewVec(n int) Vec {
	return make(Vec, n)
}

// NewVecFill creates a vector of length n filled with val.
func NewVecFill(n int, val float64) Vec {
	v := make(Vec, n)
	FillVec(v, val)
	return v
}

// FillVec fills all elements of an existing vector with val.
func FillVec(v Vec, val float64) {
	for i := range v {
		v[i] = val
	}
}

// FillInts fills all elements of an int slice with val.
func FillInts(v []int, val int) {
	for i := range v {
		v[i] = val
	}
}

// ScaleVec stores alpha*src in dst.
func ScaleVec(dst Vec, alpha float64, src Vec) {
	for i := range dst {
		dst[i] = alpha * src[i]
	}
}

// MulVec stores the elementwise product a*b in dst.
func MulVec(dst, a, b Vec) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// SumVec returns the sum of all elements, accumulated in index order.
func SumVec(v Vec) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum
}

// ArgMax returns the index of the first maximum element, or -1 for an empty vector.
func ArgMax(v Vec) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// Normalize divides v by its sum in place when the sum is positive.
// It returns the sum before normalization.
func Normalize(v Vec) float64 {
	sum := SumVec(v)
	if sum > 0 {
		for i := range v {
			v[i] /= sum
		}
	}
	return sum
}
