package js

import (
	"sync"

	"github.com/dop251/goja"
)

// timer is a pending setTimeout or setInterval registration.
type timer struct {
	id       int
	callback goja.Callable
	args     []goja.Value
	due      float64
	interval float64
	repeat   bool
}

// timerManager schedules timers against a virtual millisecond clock. Firing
// a timer moves the clock to its due time, so pages never wait in real time.
type timerManager struct {
	timers map[int]*timer
	nextID int
	now    float64
	mu     sync.Mutex
}

func newTimerManager() *timerManager {
	return &timerManager{
		timers: make(map[int]*timer),
		nextID: 1,
	}
}

// add registers a timer and returns its id. Ids start at 1 and are never
// reused.
func (tm *timerManager) add(callback goja.Callable, delay float64, repeat bool, args []goja.Value) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	id := tm.nextID
	tm.nextID++
	tm.timers[id] = &timer{
		id:       id,
		callback: callback,
		args:     args,
		due:      tm.now + delay,
		interval: delay,
		repeat:   repeat,
	}
	return id
}

// clear cancels a timer. Unknown ids are ignored.
func (tm *timerManager) clear(id int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.timers, id)
}

// next returns the timer due soonest, ties broken by registration order.
func (tm *timerManager) next() *timer {
	var best *timer
	for _, t := range tm.timers {
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

// fireNext advances the clock to the earliest timer and runs it. Interval
// timers are rescheduled before the callback runs so that clearInterval
// inside the callback sticks. It reports whether a timer fired.
func (tm *timerManager) fireNext(r *Runtime) bool {
	tm.mu.Lock()
	t := tm.next()
	if t == nil {
		tm.mu.Unlock()
		return false
	}
	if t.due > tm.now {
		tm.now = t.due
	}
	if t.repeat {
		// A zero interval would never let the clock move.
		step := t.interval
		if step < 1 {
			step = 1
		}
		t.due = tm.now + step
	} else {
		delete(tm.timers, t.id)
	}
	tm.mu.Unlock()

	_, _ = r.call("timer", t.callback, goja.Undefined(), t.args...)
	return true
}

func (tm *timerManager) hasPending() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.timers) > 0
}

func (tm *timerManager) clearAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.timers = make(map[int]*timer)
}
