package mocks

import (
	"github.com/bastiongames/bastion/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// BytesResults is a queue of results to return from Bytes
	BytesResults [][]byte
	bytesIndex   int
	calls        byte
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Bytes returns the next queued result. With nothing queued it returns n
// bytes of a per-call fill value, so successive unqueued calls still yield
// distinct results.
func (r *MockRandom) Bytes(n int) ([]byte, error) {
	if r.bytesIndex >= len(r.BytesResults) {
		r.calls++
		b := make([]byte, n)
		for i := range b {
			b[i] = r.calls
		}
		return b, nil
	}
	result := r.BytesResults[r.bytesIndex]
	r.bytesIndex++
	return result, nil
}

// QueueBytes adds values to the Bytes result queue
func (r *MockRandom) QueueBytes(values ...[]byte) {
	r.BytesResults = append(r.BytesResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.BytesResults = nil
	r.bytesIndex = 0
	r.calls = 0
}
