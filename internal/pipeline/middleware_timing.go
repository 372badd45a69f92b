package pipeline

import "time"

// TimingMiddleware records wall time around next, writing it into the
// task's Elapsed field. In verbose mode it prints a start/finish line.
// Grounded on cxxLauncher.launchServerCxxForCpp's
// "start := time.Now(); ...; time.Since(start)" idiom.
func TimingMiddleware(verbose bool) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(t *Task, ctx *Context) Result {
			if verbose {
				printVerbose("starting", t.Name)
			}

			start := time.Now()
			result := next(t, ctx)
			t.Elapsed = time.Since(start)

			if verbose {
				printVerbose("finished", t.Name, "in", t.Elapsed)
			}
			return result
		}
	}
}
