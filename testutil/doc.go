// Package testutil provides testing utilities for primego.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for picking limits and thread counts,
// an independent reference implementation to compare prime lists against,
// and helpers for checking ordering invariants.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	limit := rng.Limit(2, 10_000)
//	threads := rng.Threads(16)
//
// # Ground Truth
//
//	want := testutil.ReferencePrimes(limit)
//	missing, extra := testutil.Diff(want, got)
package testutil
