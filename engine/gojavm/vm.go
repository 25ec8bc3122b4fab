package gojavm

// vm.go adapts the goja JavaScript runtime to the engine.Engine interface.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/perfgo/jsbench/engine"
	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
)

const EngineName = "goja"

// DefaultMaxCallStackSize bounds recursion so runaway scripts throw instead
// of growing the stack until the run stalls.
const DefaultMaxCallStackSize = 10000

// Options configures a VM.
type Options struct {
	// Maximum call stack depth; 0 selects DefaultMaxCallStackSize, a
	// negative value leaves the depth unlimited
	MaxCallStackSize int
	// Destination for print() and console output (default: os.Stdout)
	Stdout io.Writer
}

// VM is a single goja runtime with the print and console globals installed.
type VM struct {
	logger zerolog.Logger
	rt     *goja.Runtime
	out    io.Writer
}

var _ engine.Engine = (*VM)(nil)

// New creates the runtime and bootstraps the script globals.
func New(logger zerolog.Logger, opts Options) (vm *VM, err error) {
	defer func() {
		if r := recover(); r != nil {
			vm, err = nil, fmt.Errorf("failed to create goja runtime: %v", r)
		}
	}()

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	vm = &VM{
		logger: logger,
		rt:     goja.New(),
		out:    out,
	}

	stackSize := opts.MaxCallStackSize
	if stackSize == 0 {
		stackSize = DefaultMaxCallStackSize
	}
	if stackSize > 0 {
		vm.rt.SetMaxCallStackSize(stackSize)
	}

	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{out: out}))
	registry.Enable(vm.rt)
	console.Enable(vm.rt)

	if err := vm.rt.Set("print", vm.print); err != nil {
		return nil, fmt.Errorf("failed to install print: %w", err)
	}

	logger.Debug().
		Int("max_call_stack", stackSize).
		Msg("goja runtime created")

	return vm, nil
}

func (v *VM) Name() string {
	return EngineName
}

// Evaluate runs source as a script named label. Module mode evaluates the
// source inside its own strict function scope; goja has no ES module loader,
// so import/export statements are reported as syntax errors.
func (v *VM) Evaluate(source, label string, mode model.EvalMode) (res engine.Result) {
	if v.rt == nil {
		return engine.Result{Thrown: &engine.Exception{Message: "engine is closed"}}
	}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error().Str("label", label).Interface("panic", r).Msg("Engine panicked during evaluation")
			res = engine.Result{Thrown: &engine.Exception{Message: fmt.Sprintf("engine panic: %v", r)}}
		}
	}()

	if mode == model.EvalModule {
		source = wrapModule(source)
	}

	val, err := v.rt.RunScript(label, source)
	if err != nil {
		return engine.Result{Thrown: describe(err)}
	}
	return engine.Result{Value: val}
}

// MemoryUsage returns live heap bytes. goja objects live on the Go heap, so
// the Go runtime's accounting is the engine's accounting.
func (v *VM) MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

func (v *VM) ForceCollection() {
	runtime.GC()
}

func (v *VM) Close() error {
	if v.rt == nil {
		return nil
	}
	v.rt = nil
	v.logger.Debug().Msg("goja runtime released")
	return nil
}

func (v *VM) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	fmt.Fprintln(v.out, strings.Join(parts, " "))
	return goja.Undefined()
}

func wrapModule(source string) string {
	// Keep the prefix on the first line so reported line numbers match the file.
	return "(function(){'use strict';" + source + "\n}).call(undefined);"
}

// describe converts an evaluation error into an Exception. The stack is only
// taken from error-shaped thrown values.
func describe(err error) *engine.Exception {
	var jsErr *goja.Exception
	if !errors.As(err, &jsErr) {
		return &engine.Exception{Message: err.Error()}
	}

	exc := &engine.Exception{Message: jsErr.Error()}
	obj, ok := jsErr.Value().(*goja.Object)
	if !ok || obj.ClassName() != "Error" {
		return exc
	}
	if stack := obj.Get("stack"); stack != nil && !goja.IsUndefined(stack) && !goja.IsNull(stack) {
		exc.Stack = stack.String()
	}
	return exc
}

type printer struct {
	out io.Writer
}

func (p printer) Log(s string)   { fmt.Fprintln(p.out, s) }
func (p printer) Warn(s string)  { fmt.Fprintln(p.out, s) }
func (p printer) Error(s string) { fmt.Fprintln(p.out, s) }
