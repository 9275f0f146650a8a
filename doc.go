// Package primego generates prime numbers with four interchangeable
// algorithms, optionally spread over a caller-chosen number of threads.
//
// # Quick Start
//
//	svc := primego.New()
//	defer svc.Close()
//
//	res, err := svc.Generate(ctx, primego.Request{
//	    Algorithm: "sieve",
//	    Limit:     1_000_000,
//	    Threads:   4,
//	    UseCache:  true,
//	})
//	fmt.Println(res.Total(), res.Primes[res.Total()-1]) // 78498 999983
//
// # Algorithms
//
//   - trial:  trial division
//   - sieve:  segmented Sieve of Eratosthenes
//   - atkin:  segmented Sieve of Atkin
//   - miller: Miller-Rabin with witnesses {2, 3, 5, 7, 11}
//
// Names are case-insensitive. An unknown name returns an *ErrUnsupported,
// which matches ErrUnsupportedAlgorithm with errors.Is. The algorithms
// themselves live in the algorithm package and can be used without the
// service.
//
// # Guard Policy
//
// A request is skipped (empty result, Skipped set, nil error) when
//
//	limit < 2 || threads > limit || limit > MaxLimit || threads > MaxThreads
//
// MaxLimit defaults to 1,000,000,000 and MaxThreads to 128.
//
// # Determinism
//
// For a given algorithm and limit the result is the same sorted,
// duplicate-free sequence for every thread count. This is what makes the
// result cache, keyed by algorithm, limit and threads, valid.
//
// # Failures
//
// A chunk worker that panics is recovered. Its primes are missing from the
// result and the chunk is listed in Result.Failures; the failure is logged and
// counted. Such results are never cached.
package primego
