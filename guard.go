package primego

import "github.com/hupe1980/primego/algorithm"

const (
	// DefaultMaxLimit is the largest upper limit served by default.
	DefaultMaxLimit = 1_000_000_000
	// DefaultMaxThreads is the largest thread count served by default.
	DefaultMaxThreads = 128
)

// SkipReason names the guard rule that rejected a request.
type SkipReason string

const (
	SkipNone               SkipReason = ""
	SkipLimitBelowMinimum  SkipReason = "limit_below_minimum"
	SkipThreadsExceedLimit SkipReason = "threads_exceed_limit"
	SkipLimitExceedsMax    SkipReason = "limit_exceeds_max"
	SkipThreadsExceedMax   SkipReason = "threads_exceed_max"
)

// GuardPolicy bounds the requests the service will run. Requests outside
// the bounds are answered with an empty result instead of an error.
// MaxLimit never admits more than algorithm.MaxUpperLimit.
type GuardPolicy struct {
	MaxLimit   int
	MaxThreads int
}

// DefaultGuardPolicy returns the policy with DefaultMaxLimit and
// DefaultMaxThreads.
func DefaultGuardPolicy() GuardPolicy {
	return GuardPolicy{MaxLimit: DefaultMaxLimit, MaxThreads: DefaultMaxThreads}
}

// Check returns the first rule that rejects (limit, threads), or SkipNone.
//
// threads > limit is rejected even though primes below limit exist; callers
// depend on that exact behavior.
func (g GuardPolicy) Check(limit, threads int) SkipReason {
	switch {
	case limit < 2:
		return SkipLimitBelowMinimum
	case threads > limit:
		return SkipThreadsExceedLimit
	case int64(limit) > g.maxLimit():
		return SkipLimitExceedsMax
	case threads > g.MaxThreads:
		return SkipThreadsExceedMax
	}
	return SkipNone
}

func (g GuardPolicy) maxLimit() int64 {
	return min(int64(g.MaxLimit), algorithm.MaxUpperLimit)
}

// normalized returns g with MaxLimit clamped to algorithm.MaxUpperLimit.
func (g GuardPolicy) normalized() GuardPolicy {
	g.MaxLimit = int(g.maxLimit())
	return g
}
