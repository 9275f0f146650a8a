package bitset

import (
	"github.com/bits-and-blooms/bitset"
)

// Segment is a bit array over the inclusive range [lower, upper].
type Segment struct {
	lower int
	upper int
	bits  *bitset.BitSet
}

// New creates a segment over [lower, upper]. If set is true every candidate
// starts marked, otherwise every candidate starts cleared.
// An empty range (lower > upper) yields a segment with no candidates.
func New(lower, upper int, set bool) *Segment {
	n := 0
	if upper >= lower {
		n = upper - lower + 1
	}

	b := bitset.New(uint(n))
	if set && n > 0 {
		b.FlipRange(0, uint(n))
	}

	return &Segment{
		lower: lower,
		upper: upper,
		bits:  b,
	}
}

// Lower returns the first value represented by the segment.
func (s *Segment) Lower() int { return s.lower }

// Upper returns the last value represented by the segment.
func (s *Segment) Upper() int { return s.upper }

// Contains reports whether v lies inside the segment.
func (s *Segment) Contains(v int) bool {
	return v >= s.lower && v <= s.upper
}

// Test reports whether candidate v is marked. Values outside the segment are
// never marked.
func (s *Segment) Test(v int) bool {
	if !s.Contains(v) {
		return false
	}
	return s.bits.Test(uint(v - s.lower))
}

// Flip toggles candidate v.
func (s *Segment) Flip(v int) {
	if s.Contains(v) {
		s.bits.Flip(uint(v - s.lower))
	}
}

// ClearEvery unmarks first, first+step, first+2*step, ... up to upper.
func (s *Segment) ClearEvery(first, step int) {
	if step <= 0 {
		return
	}
	if first < s.lower {
		first += ((s.lower - first + step - 1) / step) * step
	}
	for v := first; v <= s.upper; v += step {
		s.bits.Clear(uint(v - s.lower))
	}
}

// AppendMarked appends every marked value >= from to dst in ascending order.
func (s *Segment) AppendMarked(dst []uint32, from int) []uint32 {
	start := uint(0)
	if from > s.lower {
		start = uint(from - s.lower)
	}
	for i, ok := s.bits.NextSet(start); ok; i, ok = s.bits.NextSet(i + 1) {
		dst = append(dst, uint32(s.lower+int(i)))
	}
	return dst
}
