package hmm

import "sync"

// SyncStreamDecoder guards a StreamDecoder with a single mutex so one
// goroutine can feed while another decodes.
type SyncStreamDecoder struct {
	mu sync.Mutex
	d  *StreamDecoder
}

// NewSyncStreamDecoder wraps d. The caller must not use d directly afterwards.
func NewSyncStreamDecoder(d *StreamDecoder) *SyncStreamDecoder {
	return &SyncStreamDecoder{d: d}
}

// Feed calls StreamDecoder.Feed under the lock.
func (s *SyncStreamDecoder) Feed(obs []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Feed(obs)
}

// Decode calls StreamDecoder.Decode under the lock.
func (s *SyncStreamDecoder) Decode(nBackward int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Decode(nBackward)
}

// FeedDecode feeds one frame and decodes the trailing window atomically.
func (s *SyncStreamDecoder) FeedDecode(obs []float64, nBackward int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.d.Feed(obs); err != nil {
		return nil, err
	}
	return s.d.Decode(nBackward)
}

// Frames returns the number of frames fed.
func (s *SyncStreamDecoder) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Frames()
}

// Reset calls StreamDecoder.Reset under the lock.
func (s *SyncStreamDecoder) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.Reset()
}
