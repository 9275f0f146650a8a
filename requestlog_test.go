package primego

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog_Ring(t *testing.T) {
	l := newRequestLog(3)
	assert.Empty(t, l.recent())

	l.add(RequestRecord{Limit: 1})
	l.add(RequestRecord{Limit: 2})
	assert.Equal(t, []int{1, 2}, limits(l.recent()))

	l.add(RequestRecord{Limit: 3})
	l.add(RequestRecord{Limit: 4})
	l.add(RequestRecord{Limit: 5})
	assert.Equal(t, []int{3, 4, 5}, limits(l.recent()))
}

func TestRequestLog_DefaultSize(t *testing.T) {
	l := newRequestLog(0)
	for i := 0; i < 25; i++ {
		l.add(RequestRecord{Limit: i})
	}

	got := l.recent()
	require.Len(t, got, DefaultRequestLogSize)
	assert.Equal(t, 15, got[0].Limit)
	assert.Equal(t, 24, got[DefaultRequestLogSize-1].Limit)
}

func TestRequestLog_Concurrent(t *testing.T) {
	l := newRequestLog(5)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.add(RequestRecord{Limit: i})
				_ = l.recent()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, l.recent(), 5)
}

func limits(recs []RequestRecord) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.Limit
	}
	return out
}
