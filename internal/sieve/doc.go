// Package sieve implements the prime kernels: base-prime generation, segment
// processors for the Eratosthenes and Atkin families, and the per-candidate
// tests used by trial division and Miller-Rabin.
//
// Every function here is pure. Segment processors allocate their own candidate
// segment and only read the base primes they are given, so they may run
// concurrently over disjoint ranges that share one base-prime slice.
//
// # Base primes
//
// Segmented sieves need every prime up to floor(sqrt(upper)) before any
// segment above that bound can be processed:
//
//	base := sieve.ClassicBasePrimes(sieve.Isqrt(upper))
//	primes := sieve.EratosthenesSegment(lo, hi, base)
//
// The Atkin family uses AtkinBasePrimes for the same purpose.
package sieve
