package explore

import bloom "github.com/bits-and-blooms/bloom/v3"

// defaultSeenCapacity sizes the filter for unbounded sessions.
const defaultSeenCapacity = 100_000

// SeenTracker remembers generated tokens in a bloom filter to count
// duplicate candidates. False positives are possible at a 0.1% rate, false
// negatives are not.
type SeenTracker struct {
	filter *bloom.BloomFilter
}

// NewSeenTracker sizes the filter for the expected number of tokens.
// Zero selects a capacity suited to unbounded sessions.
func NewSeenTracker(expected uint) *SeenTracker {
	if expected == 0 {
		expected = defaultSeenCapacity
	}
	return &SeenTracker{filter: bloom.NewWithEstimates(expected, 0.001)}
}

// Observe records token and reports whether it was seen before.
func (s *SeenTracker) Observe(token string) bool {
	return s.filter.TestOrAddString(token)
}
