// Package pipeline implements the event + middleware engine: an ordered
// task list wrapped by layered middlewares, run sequentially with
// fail-fast (STRICT) semantics and a shared context map.
//
// The middleware composition follows the func(http.Handler) http.Handler
// chain-of-responsibility idiom, adapted from HTTP handlers to build
// tasks.
package pipeline

import (
	"time"

	"github.com/ecbuild/ecbuild/internal/ecberr"
)

// Context is the single shared mutable structure passed to every task in
// one execution. Its mutation is race-free because tasks run
// sequentially, so no locking is taken.
type Context struct {
	values map[string]interface{}
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]interface{})}
}

func (c *Context) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *Context) Set(key string, value interface{}) {
	c.values[key] = value
}

// Well-known context keys.
const (
	KeyDependencyGraph = "dependency_graph"
	KeyBuildConfig     = "build.config"
)

func ObjectKey(sourcePath string) string {
	return "object:" + sourcePath
}

// Result is a task's outcome.
type Result struct {
	Success bool
	Err     error
	Kind    ecberr.Kind
}

// Task is one compile or link unit of work.
type Task struct {
	Name    string
	Payload interface{}
	Execute func(ctx *Context) Result

	// Post-execution fields, written by middlewares.
	CacheHit   bool
	Elapsed    time.Duration
	ObjectPath string
}

// HandlerFunc is the innermost/intermediate invocation signature a
// Middleware wraps.
type HandlerFunc func(t *Task, ctx *Context) Result

// Middleware wraps a HandlerFunc with cross-cutting behavior. It may
// call next to proceed inward, or short-circuit by returning without
// calling it.
type Middleware func(next HandlerFunc) HandlerFunc

// Policy governs what happens after a task fails.
type Policy int

const (
	// StrictPolicy stops at the first task failure and reports it.
	StrictPolicy Policy = iota
	// ContinueOnFailurePolicy is reserved; not currently selected by the
	// orchestrator.
	ContinueOnFailurePolicy
)

// TaskOutcome pairs a Task with the Result its run produced.
type TaskOutcome struct {
	Task   *Task
	Result Result
}

// Chain is an ordered task list plus an ordered middleware list plus a
// shared Context.
type Chain struct {
	Tasks       []*Task
	Middlewares []Middleware
	Policy      Policy
}

// NewChain creates an empty chain under the given fault-tolerance policy.
func NewChain(policy Policy) *Chain {
	return &Chain{Policy: policy}
}

// AddTask appends a task to the chain.
func (c *Chain) AddTask(t *Task) {
	c.Tasks = append(c.Tasks, t)
}

// Attach appends a middleware. Attachment order is the reverse of
// runtime order: the middleware attached last is invoked first —
// attaching M1, M2, M3 in that order produces the runtime chain
// M3 -> M2 -> M1 -> task.
func (c *Chain) Attach(m Middleware) {
	c.Middlewares = append(c.Middlewares, m)
}

// baseHandler is the innermost layer: it invokes the task's own Execute
// function.
func baseHandler(t *Task, ctx *Context) Result {
	return t.Execute(ctx)
}

// compose folds Middlewares in attachment order so the last-attached
// middleware becomes the outermost wrapper.
func (c *Chain) compose() HandlerFunc {
	handler := HandlerFunc(baseHandler)
	for i := 0; i < len(c.Middlewares); i++ {
		handler = c.Middlewares[i](handler)
	}
	return handler
}

// Run executes every task in order through the composed middleware
// chain. Under StrictPolicy, it stops at the first failure; the
// returned slice holds every outcome produced before stopping.
func (c *Chain) Run(ctx *Context) []TaskOutcome {
	handler := c.compose()
	outcomes := make([]TaskOutcome, 0, len(c.Tasks))

	for _, task := range c.Tasks {
		result := handler(task, ctx)
		outcomes = append(outcomes, TaskOutcome{Task: task, Result: result})

		if !result.Success && c.Policy == StrictPolicy {
			break
		}
	}
	return outcomes
}
