// Package bitset provides candidate segments: compact bit arrays where bit i
// stands for the integer lower+i.
//
// A Segment is owned by a single worker while a range is being sieved and is
// discarded once its primes have been extracted. It is not safe for concurrent
// use.
package bitset
