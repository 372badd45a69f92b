package pipeline

import (
	"sync/atomic"
	"time"
)

// Stats accumulates build counters with atomic fields so concurrent
// middleware can update them without a lock.
type Stats struct {
	CachedFiles     int64
	CompiledFiles   int64
	FailedFiles     int64
	CompilationTime int64 // nanoseconds, atomic
}

func NewStats() *Stats {
	return &Stats{}
}

// StatisticsMiddleware times next and, after it returns, increments the
// appropriate counter: CachedFiles on a cache hit, CompiledFiles plus
// CompilationTime on a successful compile, FailedFiles on failure.
func StatisticsMiddleware(stats *Stats) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(t *Task, ctx *Context) Result {
			start := time.Now()
			result := next(t, ctx)
			elapsed := time.Since(start)

			switch {
			case !result.Success:
				atomic.AddInt64(&stats.FailedFiles, 1)
			case t.CacheHit:
				atomic.AddInt64(&stats.CachedFiles, 1)
			default:
				atomic.AddInt64(&stats.CompiledFiles, 1)
				atomic.AddInt64(&stats.CompilationTime, int64(elapsed))
			}

			return result
		}
	}
}
