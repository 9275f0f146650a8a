// Package partition splits inclusive integer ranges into contiguous chunks for
// parallel processing.
package partition

import "fmt"

// Range is an inclusive interval [Lower, Upper].
// A Range with Lower > Upper is empty.
type Range struct {
	Lower int
	Upper int
}

// Empty reports whether the range contains no integers.
func (r Range) Empty() bool {
	return r.Lower > r.Upper
}

// Len returns the number of integers in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Upper - r.Lower + 1
}

func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", r.Lower, r.Upper)
}

// ChunkSize returns ceil((upper-lower+1)/threads).
func ChunkSize(lower, upper, threads int) int {
	if threads < 1 {
		threads = 1
	}
	total := upper - lower + 1
	if total <= 0 {
		return 0
	}
	return (total + threads - 1) / threads
}

// Split divides [lower, upper] into exactly threads contiguous chunks with no
// gaps or overlaps. Trailing chunks that start past upper are empty.
func Split(lower, upper, threads int) []Range {
	if threads < 1 {
		threads = 1
	}

	chunks := make([]Range, threads)
	size := ChunkSize(lower, upper, threads)

	for i := range chunks {
		start := lower + i*size
		end := min(lower+(i+1)*size-1, upper)
		if size == 0 || start > upper {
			chunks[i] = Range{Lower: upper + 1, Upper: upper}
			continue
		}
		chunks[i] = Range{Lower: start, Upper: end}
	}

	return chunks
}
