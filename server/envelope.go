package server

import (
	"net/http"
	"time"

	"github.com/hupe1980/primego"
)

// Envelope wraps every JSON response body. Exactly one of Data and Error is
// set.
type Envelope struct {
	HTTPStatus int           `json:"httpStatus"`
	Data       *PrimePayload `json:"data,omitempty"`
	Error      *ErrorPayload `json:"error,omitempty"`
	Timestamp  string        `json:"timestamp"`
}

// PrimePayload is the body of a successful /api/primes call.
type PrimePayload struct {
	Algorithm    string   `json:"algorithm"`
	Limit        int      `json:"limit"`
	Threads      int      `json:"threads"`
	Primes       []uint32 `json:"primes"`
	Total        int      `json:"total"`
	DurationMs   int64    `json:"durationMs"`
	Cached       bool     `json:"cached"`
	SkipReason   string   `json:"skipReason,omitempty"`
	FailedChunks []int    `json:"failedChunks,omitempty"`
}

// ErrorPayload describes a failed request.
type ErrorPayload struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// InfoPayload is the body of /api/info.
type InfoPayload struct {
	Algorithms []string  `json:"algorithms"`
	MaxLimit   int       `json:"maxLimit"`
	MaxThreads int       `json:"maxThreads"`
	CPU        CPUInfo   `json:"cpu"`
	Stats      StatsInfo `json:"stats"`
	Timestamp  string    `json:"timestamp"`
}

// CPUInfo describes the host processor.
type CPUInfo struct {
	Brand         string `json:"brand"`
	PhysicalCores int    `json:"physicalCores"`
	LogicalCores  int    `json:"logicalCores"`
}

// StatsInfo mirrors primego.Stats.
type StatsInfo struct {
	CacheEnabled bool    `json:"cacheEnabled"`
	CacheEntries int     `json:"cacheEntries"`
	CacheBytes   int64   `json:"cacheBytes"`
	CacheHits    int64   `json:"cacheHits"`
	CacheMisses  int64   `json:"cacheMisses"`
	MemoryUsage  int64   `json:"memoryUsage"`
	MemoryLimit  int64   `json:"memoryLimit"`
	WorkersInUse int64   `json:"workersInUse"`
	WorkerBudget int64   `json:"workerBudget"`
	RequestRate  float64 `json:"requestRate"`
	RequestBurst int     `json:"requestBurst"`
}

// RequestsPayload is the body of /api/requests.
type RequestsPayload struct {
	Requests  []primego.RequestRecord `json:"requests"`
	Timestamp string                  `json:"timestamp"`
}

func newPrimePayload(res primego.Result) *PrimePayload {
	p := &PrimePayload{
		Algorithm:  res.Algorithm,
		Limit:      res.Limit,
		Threads:    res.Threads,
		Primes:     res.Primes,
		Total:      res.Total(),
		DurationMs: res.Duration.Milliseconds(),
		Cached:     res.Cached,
		SkipReason: string(res.SkipReason),
	}
	for _, f := range res.Failures {
		p.FailedChunks = append(p.FailedChunks, f.Index)
	}
	return p
}

func newStatsInfo(st primego.Stats) StatsInfo {
	return StatsInfo{
		CacheEnabled: st.CacheEnabled,
		CacheEntries: st.CacheEntries,
		CacheBytes:   st.CacheBytes,
		CacheHits:    st.CacheHits,
		CacheMisses:  st.CacheMisses,
		MemoryUsage:  st.MemoryUsage,
		MemoryLimit:  st.MemoryLimit,
		WorkersInUse: st.WorkersInUse,
		WorkerBudget: st.WorkerBudget,
		RequestRate:  st.RequestRate,
		RequestBurst: st.RequestBurst,
	}
}

func newErrorPayload(status int, message, path string) *ErrorPayload {
	return &ErrorPayload{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Path:    path,
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
