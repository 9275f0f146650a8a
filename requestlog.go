package primego

import (
	"sync"
	"time"
)

// DefaultRequestLogSize is the number of requests kept by default.
const DefaultRequestLogSize = 10

// RequestRecord summarizes one served generation request.
type RequestRecord struct {
	Algorithm string        `json:"algorithm"`
	Limit     int           `json:"limit"`
	Threads   int           `json:"threads"`
	Total     int           `json:"total"`
	Duration  time.Duration `json:"durationNs"`
	Cached    bool          `json:"cached"`
	At        time.Time     `json:"at"`
}

// requestLog is a bounded ring of the most recent records.
type requestLog struct {
	mu    sync.Mutex
	buf   []RequestRecord
	next  int
	count int
}

func newRequestLog(size int) *requestLog {
	if size <= 0 {
		size = DefaultRequestLogSize
	}
	return &requestLog{buf: make([]RequestRecord, size)}
}

func (l *requestLog) add(r RequestRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = r
	l.next = (l.next + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
}

// recent returns the records oldest first.
func (l *requestLog) recent() []RequestRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]RequestRecord, 0, l.count)
	start := (l.next - l.count + len(l.buf)) % len(l.buf)
	for i := 0; i < l.count; i++ {
		out = append(out, l.buf[(start+i)%len(l.buf)])
	}
	return out
}
