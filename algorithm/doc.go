// Package algorithm implements the four interchangeable prime generators and
// the registry that resolves them by name.
//
// Every generator shares one contract:
//
//	res, err := algo.Generate(ctx, upperLimit, threads)
//
// res.Primes is ascending, duplicate-free, and identical for a given
// upperLimit no matter how many threads were used. upperLimit < 2 yields an
// empty result. threads <= 1 runs the work synchronously on the calling
// goroutine; otherwise a worker pool of exactly threads goroutines is created
// for the call, each worker sieving one contiguous chunk.
//
// # Algorithms
//
//   - trial:  trial division of every candidate in [2, upperLimit]
//   - sieve:  segmented Sieve of Eratosthenes over classic base primes
//   - atkin:  segmented Sieve of Atkin over Atkin base primes
//   - miller: Miller-Rabin with the witnesses {2, 3, 5, 7, 11}
//
// # Failures
//
// A chunk that panics contributes no primes. The panic is recovered and
// reported in Result.Failures; Generate still returns a nil error. Callers that
// need completeness must check Result.Complete.
package algorithm
