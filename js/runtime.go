// Package js runs page scripts on the goja JavaScript engine and exposes the
// dom, geometry and xpath packages to them.
package js

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultUserAgent is reported by navigator.userAgent unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (compatible; webconform/1.0)"

// DefaultMaxTimerIterations bounds how many timer callbacks RunUntilIdle
// runs before giving up on a page that keeps rescheduling work.
const DefaultMaxTimerIterations = 10000

// Options configures a Runtime.
type Options struct {
	Logger             logrus.FieldLogger
	UserAgent          string
	MaxTimerIterations int
}

// ConsoleEntry is one console.* call.
type ConsoleEntry struct {
	Level   string
	Message string
}

// ScriptError is an uncaught exception or compile error from a script.
type ScriptError struct {
	Source string
	Err    error
}

func (e *ScriptError) Error() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return e.Source + ": " + e.Err.Error()
}

func (e *ScriptError) Cause() error { return e.Err }

// Runtime wraps a goja runtime with the window-level globals a page sees.
// It is not safe for concurrent script execution; the mutex only guards
// the collected output.
type Runtime struct {
	vm        *goja.Runtime
	window    *goja.Object
	logger    logrus.FieldLogger
	timers    *timerManager
	eventLoop *eventLoop
	userAgent string
	maxTimers int

	mu      sync.Mutex
	errors  []error
	alerts  []string
	console []ConsoleEntry
	onError func(error)
}

// NewRuntime creates a runtime with console, alert, timers and the window
// object installed.
func NewRuntime(opts Options) *Runtime {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxTimerIterations <= 0 {
		opts.MaxTimerIterations = DefaultMaxTimerIterations
	}

	r := &Runtime{
		vm:        goja.New(),
		logger:    opts.Logger,
		timers:    newTimerManager(),
		eventLoop: newEventLoop(),
		userAgent: opts.UserAgent,
		maxTimers: opts.MaxTimerIterations,
	}
	r.vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	r.setupWindow()
	r.setupConsole()
	r.setupTimers()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Window returns the global object, which doubles as window.
func (r *Runtime) Window() *goja.Object {
	return r.window
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() logrus.FieldLogger {
	return r.logger
}

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs code as an anonymous script and returns its completion
// value.
func (r *Runtime) Execute(code string) (goja.Value, error) {
	return r.run("", code)
}

// ExecuteScript runs code from a script element. Errors are recorded and
// returned, and do not affect later scripts. Scripts compile in sloppy mode.
func (r *Runtime) ExecuteScript(code, src string) error {
	_, err := r.run(src, code)
	return err
}

func (r *Runtime) run(src, code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = r.reportError(src, errors.Errorf("script panic: %v", p))
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		return nil, r.reportError(src, err)
	}
	result, err = r.vm.RunProgram(program)
	if err != nil {
		return nil, r.reportError(src, err)
	}
	return result, nil
}

// call invokes a callback, recording an uncaught exception as a script
// error.
func (r *Runtime) call(source string, fn goja.Callable, this goja.Value, args ...goja.Value) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = r.reportError(source, errors.Errorf("callback panic: %v", p))
		}
	}()
	result, err = fn(this, args...)
	if err != nil {
		return nil, r.reportError(source, err)
	}
	return result, nil
}

func (r *Runtime) reportError(src string, err error) error {
	se := &ScriptError{Source: src, Err: err}
	r.logger.WithFields(logrus.Fields{"script": src, "error": err.Error()}).Warn("script error")

	r.mu.Lock()
	r.errors = append(r.errors, se)
	handler := r.onError
	r.mu.Unlock()

	if handler != nil {
		handler(se)
	}
	return se
}

// Errors returns the script errors recorded so far.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
}

// Alerts returns the messages passed to alert() in call order.
func (r *Runtime) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// ConsoleLog returns the console output in call order.
func (r *Runtime) ConsoleLog() []ConsoleEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ConsoleEntry(nil), r.console...)
}

// WindowName returns the current value of window.name.
func (r *Runtime) WindowName() string {
	v := r.window.Get("name")
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// QueueMicrotask schedules fn to run at the next microtask checkpoint.
func (r *Runtime) QueueMicrotask(fn func()) {
	r.eventLoop.queueMicrotask(task{fn: fn})
}

// RunMicrotasks drains the microtask queue.
func (r *Runtime) RunMicrotasks() {
	r.eventLoop.drainMicrotasks(r)
}

// HasPendingWork reports whether timers or tasks are waiting.
func (r *Runtime) HasPendingWork() bool {
	return r.timers.hasPending() || r.eventLoop.hasPending()
}

// Now returns the virtual clock in milliseconds.
func (r *Runtime) Now() float64 {
	return r.timers.now
}

// RunUntilIdle runs queued tasks and timers until nothing is pending. The
// clock is virtual: each step jumps straight to the next due timer. It
// stops early when ctx is done or the timer iteration limit is reached.
func (r *Runtime) RunUntilIdle(ctx context.Context) error {
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "event loop")
		}
		if !r.eventLoop.runOnce(r) {
			return nil
		}
		if i >= r.maxTimers {
			r.logger.WithField("iterations", i).Warn("timer iteration limit reached")
			return errors.Errorf("event loop did not settle after %d iterations", i)
		}
	}
}

// setupConsole routes console.* to the logger and the console log.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	levels := map[string]logrus.Level{
		"log":   logrus.InfoLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"debug": logrus.DebugLevel,
		"trace": logrus.TraceLevel,
	}
	for name, level := range levels {
		name, level := name, level
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.logConsole(name, level, formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			r.logConsole("assert", logrus.ErrorLevel, msg)
		}
		return goja.Undefined()
	})

	counts := make(map[string]int)
	console.Set("count", func(call goja.FunctionCall) goja.Value {
		label := labelArg(call)
		counts[label]++
		r.logConsole("count", logrus.InfoLevel, fmt.Sprintf("%s: %d", label, counts[label]))
		return goja.Undefined()
	})
	console.Set("countReset", func(call goja.FunctionCall) goja.Value {
		delete(counts, labelArg(call))
		return goja.Undefined()
	})
	console.Set("clear", func(goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})

	r.vm.Set("console", console)
}

func labelArg(call goja.FunctionCall) string {
	if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
		return call.Arguments[0].String()
	}
	return "default"
}

func (r *Runtime) logConsole(method string, level logrus.Level, msg string) {
	r.mu.Lock()
	r.console = append(r.console, ConsoleEntry{Level: method, Message: msg})
	r.mu.Unlock()
	r.logger.WithFields(logrus.Fields{"source": "console", "level": method}).Log(level, msg)
}

// setupTimers installs setTimeout, setInterval and their clear functions.
func (r *Runtime) setupTimers() {
	schedule := func(repeat bool) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				return r.vm.ToValue(0)
			}
			callback, ok := goja.AssertFunction(call.Arguments[0])
			if !ok {
				// A string handler is compiled like eval.
				code := call.Arguments[0].String()
				callback = func(goja.Value, ...goja.Value) (goja.Value, error) {
					return r.vm.RunString(code)
				}
			}
			delay := 0.0
			if len(call.Arguments) > 1 {
				delay = float64(call.Arguments[1].ToInteger())
			}
			if delay < 0 {
				delay = 0
			}
			var args []goja.Value
			if len(call.Arguments) > 2 {
				args = call.Arguments[2:]
			}
			return r.vm.ToValue(r.timers.add(callback, delay, repeat, args))
		}
	}
	clear := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.timers.clear(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	}

	r.vm.Set("setTimeout", schedule(false))
	r.vm.Set("setInterval", schedule(true))
	r.vm.Set("clearTimeout", clear)
	r.vm.Set("clearInterval", clear)

	r.vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(r.vm.NewTypeError("Failed to execute 'queueMicrotask': 1 argument required, but only 0 present."))
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			panic(r.vm.NewTypeError("Failed to execute 'queueMicrotask': parameter 1 is not of type 'Function'."))
		}
		r.eventLoop.queueMicrotask(task{callback: callback})
		return goja.Undefined()
	})
}

// setupWindow makes the global object the window and installs its plain
// properties.
func (r *Runtime) setupWindow() {
	window := r.vm.GlobalObject()
	r.window = window

	window.Set("window", window)
	window.Set("self", window)
	window.Set("globalThis", window)
	window.Set("parent", window)
	window.Set("top", window)
	window.Set("frames", window)
	window.Set("opener", goja.Null())
	window.Set("name", "")

	navigator := r.vm.NewObject()
	navigator.Set("userAgent", r.userAgent)
	navigator.Set("language", "en-US")
	navigator.Set("languages", []string{"en-US", "en"})
	navigator.Set("platform", "")
	navigator.Set("cookieEnabled", false)
	window.Set("navigator", navigator)

	window.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := "undefined"
		if len(call.Arguments) > 0 {
			msg = formatValue(call.Arguments[0])
		}
		r.mu.Lock()
		r.alerts = append(r.alerts, msg)
		r.mu.Unlock()
		r.logger.WithField("source", "alert").Debug(msg)
		return goja.Undefined()
	})
	window.Set("confirm", func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(true)
	})
	window.Set("prompt", func(goja.FunctionCall) goja.Value {
		return goja.Null()
	})

	performance := r.vm.NewObject()
	performance.Set("now", func(goja.FunctionCall) goja.Value {
		return r.vm.ToValue(r.timers.now)
	})
	performance.Set("timeOrigin", 0)
	window.Set("performance", performance)
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value the way String(v) would.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
