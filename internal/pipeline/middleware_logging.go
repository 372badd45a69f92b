package pipeline

import (
	"fmt"

	"github.com/ecbuild/ecbuild/internal/ecblog"
)

func printVerbose(v ...interface{}) {
	fmt.Println(append([]interface{}{"[ecbuild]"}, v...)...)
}

// LoggingMiddleware prints a start line for compile tasks, then a
// success/cached/failure line after next returns. In quiet mode only
// failures are printed.
func LoggingMiddleware(quiet bool) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(t *Task, ctx *Context) Result {
			if _, isCompile := t.Payload.(*CompilePayload); isCompile && !quiet {
				ecblog.Info(1, "compiling", t.Name)
			}

			result := next(t, ctx)

			switch {
			case !result.Success:
				ecblog.Error("failed", t.Name, result.Err)
			case t.CacheHit && !quiet:
				ecblog.Info(0, "cached", t.Name)
			case !quiet:
				ecblog.Info(0, "compiled", t.Name, "in", t.Elapsed)
			}

			return result
		}
	}
}
