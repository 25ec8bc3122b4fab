package engine

// engine.go defines the capabilities the measurement core needs from a
// script interpreter.

import "github.com/perfgo/jsbench/model"

// Engine is a script interpreter shared sequentially across all tests of a
// run. Implementations are not safe for concurrent use.
type Engine interface {
	// Name identifies the engine implementation (e.g. "goja")
	Name() string
	// Evaluate runs source under label. It never panics; failures inside the
	// script are reported through the returned Result.
	Evaluate(source, label string, mode model.EvalMode) Result
	// MemoryUsage returns live bytes as accounted by the engine.
	MemoryUsage() uint64
	// ForceCollection synchronously reclaims unreachable memory.
	ForceCollection()
	// Close releases the runtime. Calling Close more than once is a no-op.
	Close() error
}

// Result is the tagged outcome of an evaluation.
type Result struct {
	// Value of the completed script; nil on exception
	Value any
	// Thrown is non-nil when the script raised an exception
	Thrown *Exception
}

// Exception describes a thrown value.
type Exception struct {
	// Message is the string form of the thrown value
	Message string
	// Stack is set only when the thrown value is error-shaped and carries a
	// stack property
	Stack string
}

// IsException reports whether the evaluation threw.
func (r Result) IsException() bool {
	return r.Thrown != nil
}

// Detail returns the diagnostic string for an exception and whether one was
// available.
func (r Result) Detail() (string, bool) {
	if r.Thrown == nil || r.Thrown.Stack == "" {
		return "", false
	}
	return r.Thrown.Stack, true
}
