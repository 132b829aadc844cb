package js

import (
	"sync"

	"github.com/dop251/goja"
)

// task is a queued callback in the event loop. Either callback or fn is
// set.
type task struct {
	callback goja.Callable
	args     []goja.Value
	fn       func()
}

func (t task) run(r *Runtime, source string) {
	if t.fn != nil {
		t.fn()
		return
	}
	_, _ = r.call(source, t.callback, goja.Undefined(), t.args...)
}

// eventLoop holds the microtask and macrotask queues. Timers live in the
// timerManager and are consulted once both queues are empty.
type eventLoop struct {
	microtasks []task
	macrotasks []task
	mu         sync.Mutex
}

func newEventLoop() *eventLoop {
	return &eventLoop{}
}

// queueMicrotask adds a microtask. Microtasks run before the next macrotask.
func (el *eventLoop) queueMicrotask(t task) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.microtasks = append(el.microtasks, t)
}

// queueMacrotask adds a macrotask.
func (el *eventLoop) queueMacrotask(t task) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.macrotasks = append(el.macrotasks, t)
}

func (el *eventLoop) popMicrotask() (task, bool) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if len(el.microtasks) == 0 {
		return task{}, false
	}
	t := el.microtasks[0]
	el.microtasks = el.microtasks[1:]
	return t, true
}

func (el *eventLoop) popMacrotask() (task, bool) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if len(el.macrotasks) == 0 {
		return task{}, false
	}
	t := el.macrotasks[0]
	el.macrotasks = el.macrotasks[1:]
	return t, true
}

// drainMicrotasks runs microtasks until the queue is empty, including ones
// queued while draining.
func (el *eventLoop) drainMicrotasks(r *Runtime) {
	for {
		t, ok := el.popMicrotask()
		if !ok {
			return
		}
		t.run(r, "microtask")
	}
}

// runOnce drains microtasks and then runs one macrotask, or fires the next
// due timer when no macrotask is queued. It reports whether anything ran.
func (el *eventLoop) runOnce(r *Runtime) bool {
	el.drainMicrotasks(r)

	if t, ok := el.popMacrotask(); ok {
		t.run(r, "task")
		el.drainMicrotasks(r)
		return true
	}
	if r.timers.fireNext(r) {
		el.drainMicrotasks(r)
		return true
	}
	return false
}

func (el *eventLoop) hasPending() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.microtasks) > 0 || len(el.macrotasks) > 0
}

func (el *eventLoop) clear() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.microtasks = nil
	el.macrotasks = nil
}
