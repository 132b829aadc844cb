package js

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime() *Runtime {
	return NewRuntime(Options{})
}

func run(t *testing.T, r *Runtime, code string) interface{} {
	t.Helper()
	v, err := r.Execute(code)
	require.NoError(t, err)
	return v.Export()
}

func TestRuntimeBasic(t *testing.T) {
	r := newTestRuntime()
	assert.EqualValues(t, 3, run(t, r, "1 + 2"))
}

func TestRuntimeVariables(t *testing.T) {
	r := newTestRuntime()
	run(t, r, "var x = 42;")
	assert.EqualValues(t, 42, run(t, r, "x"))
}

func TestRuntimeSloppyMode(t *testing.T) {
	r := newTestRuntime()
	// Implicit globals only work outside strict mode.
	run(t, r, "implicitGlobal = 7;")
	assert.EqualValues(t, 7, run(t, r, "window.implicitGlobal"))
}

func TestRuntimeConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := NewRuntime(Options{Logger: logger})
	run(t, r, `
		console.log("hello", 1);
		console.warn("careful");
		console.error("broken");
		console.assert(false, "asserted");
		console.count(); console.count();
	`)

	entries := r.ConsoleLog()
	require.Len(t, entries, 6)
	assert.Equal(t, ConsoleEntry{Level: "log", Message: "hello 1"}, entries[0])
	assert.Equal(t, "warn", entries[1].Level)
	assert.Equal(t, "error", entries[2].Level)
	assert.Equal(t, "Assertion failed: asserted", entries[3].Message)
	assert.Equal(t, "default: 2", entries[5].Message)

	assert.Contains(t, buf.String(), `"source":"console"`)
	assert.Contains(t, buf.String(), `"msg":"hello 1"`)
}

func TestRuntimeAlert(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `alert("one"); alert(2); alert(); alert(null);`)
	assert.Equal(t, []string{"one", "2", "undefined", "null"}, r.Alerts())
}

func TestRuntimeWindow(t *testing.T) {
	r := newTestRuntime()
	assert.Equal(t, true, run(t, r, "window === self && window === globalThis && window.window === window"))
	assert.Equal(t, "", run(t, r, "window.name"))

	run(t, r, `window.name = "renamed"`)
	assert.Equal(t, "renamed", r.WindowName())

	assert.Equal(t, DefaultUserAgent, run(t, r, "navigator.userAgent"))
}

func TestRuntimeUserAgent(t *testing.T) {
	r := NewRuntime(Options{UserAgent: "test-agent/1.0"})
	assert.Equal(t, "test-agent/1.0", run(t, r, "navigator.userAgent"))
}

func TestRuntimeErrorHandling(t *testing.T) {
	r := newTestRuntime()
	var reported []error
	r.SetOnError(func(err error) { reported = append(reported, err) })

	err := r.ExecuteScript("throw new Error('boom')", "inline#bad")
	require.Error(t, err)

	var se *ScriptError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "inline#bad", se.Source)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, reported, 1)
	assert.Len(t, r.Errors(), 1)

	// A failing script does not poison the runtime.
	assert.EqualValues(t, 2, run(t, r, "1 + 1"))

	r.ClearErrors()
	assert.Empty(t, r.Errors())
}

func TestRuntimeSyntaxError(t *testing.T) {
	r := newTestRuntime()
	err := r.ExecuteScript("function (", "broken")
	require.Error(t, err)
	assert.Len(t, r.Errors(), 1)
}

func TestRuntimePanicRecovery(t *testing.T) {
	r := newTestRuntime()
	r.VM().Set("explode", func() { panic("kaboom") })
	err := r.ExecuteScript("explode()", "panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRuntimeSetTimeout(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `
		var order = [];
		setTimeout(function() { order.push("b"); }, 20);
		setTimeout(function(x) { order.push(x); }, 10, "a");
		setTimeout("order.push('c')", 20);
	`)
	require.True(t, r.HasPendingWork())
	require.NoError(t, r.RunUntilIdle(context.Background()))

	assert.Equal(t, "a,b,c", run(t, r, "order.join()"))
	assert.EqualValues(t, 20, r.Now())
	assert.False(t, r.HasPendingWork())
}

func TestRuntimeClearTimeout(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `
		var called = false;
		var id = setTimeout(function() { called = true; }, 10);
		clearTimeout(id);
	`)
	require.NoError(t, r.RunUntilIdle(context.Background()))
	assert.Equal(t, false, run(t, r, "called"))
}

func TestRuntimeSetInterval(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `
		var count = 0;
		var id = setInterval(function() {
			if (++count === 3) clearInterval(id);
		}, 10);
	`)
	require.NoError(t, r.RunUntilIdle(context.Background()))
	assert.EqualValues(t, 3, run(t, r, "count"))
	assert.EqualValues(t, 30, r.Now())
}

func TestRuntimeTimerLimit(t *testing.T) {
	r := NewRuntime(Options{MaxTimerIterations: 5})
	run(t, r, `setInterval(function() {}, 1);`)
	err := r.RunUntilIdle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not settle")
}

func TestRuntimeRunUntilIdleCanceled(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `setTimeout(function() {}, 5);`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.RunUntilIdle(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuntimeQueueMicrotask(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `
		var log = [];
		setTimeout(function() { log.push("timeout"); }, 0);
		queueMicrotask(function() { log.push("micro"); });
		log.push("sync");
	`)
	require.NoError(t, r.RunUntilIdle(context.Background()))
	assert.Equal(t, "sync,micro,timeout", run(t, r, "log.join()"))

	_, err := r.Execute("queueMicrotask(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeError")
}

func TestRuntimePerformance(t *testing.T) {
	r := newTestRuntime()
	run(t, r, `var seen; setTimeout(function() { seen = performance.now(); }, 15);`)
	require.NoError(t, r.RunUntilIdle(context.Background()))
	assert.EqualValues(t, 15, run(t, r, "seen"))
}

func TestRuntimeGlobalThis(t *testing.T) {
	r := newTestRuntime()
	run(t, r, "var g = 1;")
	assert.EqualValues(t, 1, run(t, r, "globalThis.g"))
}
