package js

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/webconform/dom"
)

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event represents a DOM event.
type Event struct {
	Type             string
	Target           *goja.Object
	CurrentTarget    *goja.Object
	EventPhase       EventPhase
	Bubbles          bool
	Cancelable       bool
	Composed         bool
	DefaultPrevented bool
	IsTrusted        bool
	TimeStamp        float64
	Detail           goja.Value

	stopPropagation bool
	stopImmediate   bool
	dispatching     bool
	initialized     bool
	inPassive       bool
	path            []*goja.Object
	object          *goja.Object
}

// NewEvent returns an initialized event.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	return &Event{Type: eventType, Bubbles: bubbles, Cancelable: cancelable, initialized: true}
}

func (ev *Event) preventDefault() {
	if ev.Cancelable && !ev.inPassive {
		ev.DefaultPrevented = true
	}
}

// eventListener is a registered event listener.
type eventListener struct {
	callback goja.Value
	options  listenerOptions
	removed  bool
}

type listenerOptions struct {
	capture bool
	once    bool
	passive bool
}

// EventTarget holds the listeners of one target object.
type EventTarget struct {
	listeners map[string][]*eventListener
}

func newEventTarget() *EventTarget {
	return &EventTarget{listeners: make(map[string][]*eventListener)}
}

func (et *EventTarget) add(eventType string, callback goja.Value, opts listenerOptions) {
	for _, l := range et.listeners[eventType] {
		if l.callback.SameAs(callback) && l.options.capture == opts.capture {
			return
		}
	}
	et.listeners[eventType] = append(et.listeners[eventType], &eventListener{callback: callback, options: opts})
}

func (et *EventTarget) remove(eventType string, callback goja.Value, capture bool) {
	listeners := et.listeners[eventType]
	for i, l := range listeners {
		if l.callback.SameAs(callback) && l.options.capture == capture {
			l.removed = true
			et.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// HasListeners reports whether obj has listeners for eventType.
func (b *Binder) HasListeners(obj *goja.Object, eventType string) bool {
	et, ok := b.targets[obj]
	return ok && len(et.listeners[eventType]) > 0
}

func (b *Binder) target(obj *goja.Object) *EventTarget {
	et, ok := b.targets[obj]
	if !ok {
		et = newEventTarget()
		b.targets[obj] = et
	}
	return et
}

func (b *Binder) listenerOptions(v goja.Value) listenerOptions {
	var opts listenerOptions
	if isNullish(v) {
		return opts
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		opts.capture = v.ToBoolean()
		return opts
	}
	get := func(name string) bool {
		p := obj.Get(name)
		return p != nil && p.ToBoolean()
	}
	opts.capture = get("capture")
	opts.once = get("once")
	opts.passive = get("passive")
	return opts
}

// setupEvents installs EventTarget, Event and CustomEvent, and makes the
// window an event target.
func (b *Binder) setupEvents() {
	vm := b.vm

	targetProto := b.defineInterface("EventTarget", "", func(call goja.ConstructorCall) *goja.Object {
		return call.This
	})
	targetObject := func(call goja.FunctionCall) *goja.Object {
		obj, ok := call.This.(*goja.Object)
		if !ok {
			obj = b.runtime.window
		}
		return obj
	}
	b.method(targetProto, "addEventListener", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "addEventListener", "EventTarget")
		callback := arg(call, 1)
		if isNullish(callback) {
			return goja.Undefined()
		}
		b.target(targetObject(call)).add(call.Arguments[0].String(), callback, b.listenerOptions(arg(call, 2)))
		return goja.Undefined()
	})
	b.method(targetProto, "removeEventListener", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 2, "removeEventListener", "EventTarget")
		callback := arg(call, 1)
		if isNullish(callback) {
			return goja.Undefined()
		}
		opts := b.listenerOptions(arg(call, 2))
		b.target(targetObject(call)).remove(call.Arguments[0].String(), callback, opts.capture)
		return goja.Undefined()
	})
	b.method(targetProto, "dispatchEvent", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "dispatchEvent", "EventTarget")
		ev, ok := b.Value(call.Arguments[0]).(*Event)
		if !ok {
			panic(vm.NewTypeError("Failed to execute 'dispatchEvent' on 'EventTarget': parameter 1 is not of type 'Event'."))
		}
		if ev.dispatching || !ev.initialized {
			b.throw(dom.ErrInvalidState("The event is already being dispatched or has not been initialized."))
		}
		ev.IsTrusted = false
		return vm.ToValue(b.Dispatch(targetObject(call), ev))
	})

	b.runtime.window.SetPrototype(targetProto)

	eventProto := b.defineInterface("Event", "", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to construct 'Event': 1 argument required, but only 0 present."))
		}
		ev := b.eventFromInit(call.Arguments[0].String(), arg0(call.Arguments, 1))
		ev.object = call.This
		b.values[call.This] = ev
		return call.This
	})
	b.constants("Event", map[string]int{
		"NONE":            int(EventPhaseNone),
		"CAPTURING_PHASE": int(EventPhaseCapturing),
		"AT_TARGET":       int(EventPhaseAtTarget),
		"BUBBLING_PHASE":  int(EventPhaseBubbling),
	})

	event := func(call goja.FunctionCall) *Event {
		if ev, ok := b.this(call).(*Event); ok {
			return ev
		}
		panic(vm.NewTypeError("Illegal invocation"))
	}
	objectOrNull := func(obj *goja.Object) goja.Value {
		if obj == nil {
			return goja.Null()
		}
		return obj
	}
	b.getter(eventProto, "type", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).Type) })
	b.getter(eventProto, "target", func(call goja.FunctionCall) goja.Value { return objectOrNull(event(call).Target) })
	b.getter(eventProto, "srcElement", func(call goja.FunctionCall) goja.Value { return objectOrNull(event(call).Target) })
	b.getter(eventProto, "currentTarget", func(call goja.FunctionCall) goja.Value {
		return objectOrNull(event(call).CurrentTarget)
	})
	b.getter(eventProto, "eventPhase", func(call goja.FunctionCall) goja.Value { return vm.ToValue(int(event(call).EventPhase)) })
	b.getter(eventProto, "bubbles", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).Bubbles) })
	b.getter(eventProto, "cancelable", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).Cancelable) })
	b.getter(eventProto, "composed", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).Composed) })
	b.getter(eventProto, "isTrusted", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).IsTrusted) })
	b.getter(eventProto, "timeStamp", func(call goja.FunctionCall) goja.Value { return vm.ToValue(event(call).TimeStamp) })
	b.getter(eventProto, "defaultPrevented", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(event(call).DefaultPrevented)
	})
	b.accessor(eventProto, "returnValue", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(!event(call).DefaultPrevented)
	}, func(call goja.FunctionCall) goja.Value {
		if !arg(call, 0).ToBoolean() {
			event(call).preventDefault()
		}
		return goja.Undefined()
	})
	b.accessor(eventProto, "cancelBubble", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(event(call).stopPropagation)
	}, func(call goja.FunctionCall) goja.Value {
		if arg(call, 0).ToBoolean() {
			event(call).stopPropagation = true
		}
		return goja.Undefined()
	})
	b.method(eventProto, "preventDefault", func(call goja.FunctionCall) goja.Value {
		event(call).preventDefault()
		return goja.Undefined()
	})
	b.method(eventProto, "stopPropagation", func(call goja.FunctionCall) goja.Value {
		event(call).stopPropagation = true
		return goja.Undefined()
	})
	b.method(eventProto, "stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		ev := event(call)
		ev.stopPropagation = true
		ev.stopImmediate = true
		return goja.Undefined()
	})
	b.method(eventProto, "composedPath", func(call goja.FunctionCall) goja.Value {
		ev := event(call)
		items := make([]interface{}, 0, len(ev.path))
		if ev.dispatching {
			for _, obj := range ev.path {
				items = append(items, obj)
			}
		}
		return vm.NewArray(items...)
	})
	b.method(eventProto, "initEvent", func(call goja.FunctionCall) goja.Value {
		b.requireArgs(call, 1, "initEvent", "Event")
		ev := event(call)
		if ev.dispatching {
			return goja.Undefined()
		}
		ev.Type = call.Arguments[0].String()
		ev.Bubbles = boolArg(call, 1, false)
		ev.Cancelable = boolArg(call, 2, false)
		ev.initialized = true
		ev.DefaultPrevented = false
		ev.stopPropagation = false
		ev.stopImmediate = false
		ev.Target = nil
		return goja.Undefined()
	})

	customProto := b.defineInterface("CustomEvent", "Event", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to construct 'CustomEvent': 1 argument required, but only 0 present."))
		}
		init := arg0(call.Arguments, 1)
		ev := b.eventFromInit(call.Arguments[0].String(), init)
		ev.Detail = goja.Null()
		if obj, ok := init.(*goja.Object); ok {
			if d := obj.Get("detail"); !isMissing(d) {
				ev.Detail = d
			}
		}
		ev.object = call.This
		b.values[call.This] = ev
		return call.This
	})
	b.getter(customProto, "detail", func(call goja.FunctionCall) goja.Value {
		if d := event(call).Detail; d != nil {
			return d
		}
		return goja.Null()
	})
	b.method(customProto, "initCustomEvent", func(call goja.FunctionCall) goja.Value {
		ev := event(call)
		if ev.dispatching {
			return goja.Undefined()
		}
		ev.Type = stringArg(call, 0, "undefined")
		ev.Bubbles = boolArg(call, 1, false)
		ev.Cancelable = boolArg(call, 2, false)
		ev.Detail = arg(call, 3)
		ev.initialized = true
		return goja.Undefined()
	})
}

func arg0(args []goja.Value, i int) goja.Value {
	if i < len(args) {
		return args[i]
	}
	return goja.Undefined()
}

func (b *Binder) eventFromInit(eventType string, init goja.Value) *Event {
	ev := NewEvent(eventType, false, false)
	ev.TimeStamp = b.runtime.Now()
	if obj, ok := init.(*goja.Object); ok {
		get := func(name string) bool {
			v := obj.Get(name)
			return v != nil && v.ToBoolean()
		}
		ev.Bubbles = get("bubbles")
		ev.Cancelable = get("cancelable")
		ev.Composed = get("composed")
	}
	return ev
}

// createEvent implements document.createEvent for the legacy interface
// names.
func (b *Binder) createEvent(iface string) *goja.Object {
	var proto *goja.Object
	switch strings.ToLower(iface) {
	case "event", "events", "htmlevents", "svgevents":
		proto = b.protos["Event"]
	case "customevent":
		proto = b.protos["CustomEvent"]
	default:
		b.throw(dom.ErrNotSupported("The provided event type ('" + iface + "') is invalid."))
	}
	ev := &Event{TimeStamp: b.runtime.Now()}
	if proto == b.protos["CustomEvent"] {
		ev.Detail = goja.Null()
	}
	ev.object = b.fresh(ev, proto)
	return ev.object
}

// eventPath returns the propagation path of obj, target first. Node
// targets propagate through their ancestors and, for the bound document,
// on to the window except for load events.
func (b *Binder) eventPath(obj *goja.Object, ev *Event) []*goja.Object {
	path := []*goja.Object{obj}
	n, ok := b.values[obj].(*dom.Node)
	if !ok {
		return path
	}
	for p := n.ParentNode(); p != nil; p = p.ParentNode() {
		path = append(path, b.Node(p))
		n = p
	}
	if b.document != nil && n == b.document.AsNode() && ev.Type != "load" {
		path = append(path, b.runtime.window)
	}
	return path
}

// Dispatch runs ev through the capture, target and bubble phases starting
// at target. It returns false when a listener canceled the event.
func (b *Binder) Dispatch(target *goja.Object, ev *Event) bool {
	ev.dispatching = true
	ev.Target = target
	ev.path = b.eventPath(target, ev)
	defer func() {
		ev.dispatching = false
		ev.EventPhase = EventPhaseNone
		ev.CurrentTarget = nil
		ev.stopPropagation = false
		ev.stopImmediate = false
	}()

	obj := b.eventObject(ev)
	path := ev.path

	ev.EventPhase = EventPhaseCapturing
	for i := len(path) - 1; i > 0 && !ev.stopPropagation; i-- {
		b.invoke(path[i], ev, obj, true)
	}

	ev.EventPhase = EventPhaseAtTarget
	if !ev.stopPropagation {
		b.invoke(target, ev, obj, true)
	}
	if !ev.stopPropagation {
		b.invoke(target, ev, obj, false)
	}

	if ev.Bubbles {
		ev.EventPhase = EventPhaseBubbling
		for i := 1; i < len(path) && !ev.stopPropagation; i++ {
			b.invoke(path[i], ev, obj, false)
		}
	}
	return !ev.DefaultPrevented
}

// eventObject returns the script object for ev.
func (b *Binder) eventObject(ev *Event) *goja.Object {
	if ev.object == nil {
		proto := b.protos["Event"]
		if ev.Detail != nil {
			proto = b.protos["CustomEvent"]
		}
		ev.object = b.fresh(ev, proto)
	}
	return ev.object
}

// invoke calls the listeners on currentTarget registered for the given
// phase. Non-capture invocations also run the event handler property or
// content attribute.
func (b *Binder) invoke(currentTarget *goja.Object, ev *Event, obj *goja.Object, capture bool) {
	ev.CurrentTarget = currentTarget
	if !capture {
		b.invokeHandler(currentTarget, ev, obj)
		if ev.stopImmediate {
			return
		}
	}

	et, ok := b.targets[currentTarget]
	if !ok {
		return
	}
	listeners := append([]*eventListener(nil), et.listeners[ev.Type]...)
	for _, l := range listeners {
		if l.removed || l.options.capture != capture {
			continue
		}
		if l.options.once {
			et.remove(ev.Type, l.callback, l.options.capture)
		}
		ev.inPassive = l.options.passive
		b.callListener(l.callback, currentTarget, obj)
		ev.inPassive = false
		if ev.stopImmediate {
			return
		}
	}
}

func (b *Binder) callListener(callback goja.Value, this *goja.Object, event *goja.Object) {
	if fn, ok := goja.AssertFunction(callback); ok {
		_, _ = b.runtime.call("listener", fn, this, event)
		return
	}
	cbObj, ok := callback.(*goja.Object)
	if !ok {
		return
	}
	handle, ok := goja.AssertFunction(cbObj.Get("handleEvent"))
	if !ok {
		b.runtime.reportError("listener", dom.ErrType("The listener's handleEvent is not a function."))
		return
	}
	_, _ = b.runtime.call("listener", handle, cbObj, event)
}

// invokeHandler runs the on<type> handler of currentTarget. A function
// assigned to the property wins over the content attribute. The body's
// onload attribute stands in for window.onload.
func (b *Binder) invokeHandler(currentTarget *goja.Object, ev *Event, obj *goja.Object) {
	name := "on" + strings.ToLower(ev.Type)
	if fn, ok := goja.AssertFunction(currentTarget.Get(name)); ok {
		b.callHandler(fn, currentTarget, ev, obj)
		return
	}

	var source *dom.Element
	if n, ok := b.values[currentTarget].(*dom.Node); ok {
		source = n.AsElement()
	} else if currentTarget == b.runtime.window && b.document != nil {
		source = b.document.Body()
	}
	if source == nil {
		return
	}
	code, ok := source.GetAttribute(name)
	if !ok {
		return
	}
	fn, err := b.compileHandler(name, code)
	if err != nil {
		b.runtime.reportError(name, err)
		return
	}
	b.callHandler(fn, currentTarget, ev, obj)
}

func (b *Binder) callHandler(fn goja.Callable, this *goja.Object, ev *Event, obj *goja.Object) {
	result, err := b.runtime.call(ev.Type+" handler", fn, this, obj)
	if err == nil && result != nil && result.StrictEquals(b.vm.ToValue(false)) {
		ev.preventDefault()
	}
}

func (b *Binder) compileHandler(name, code string) (goja.Callable, error) {
	value, err := b.vm.RunString("(function " + name + "(event) {\n" + code + "\n})")
	if err != nil {
		return nil, err
	}
	fn, _ := goja.AssertFunction(value)
	return fn, nil
}

// DispatchEvent fires a trusted event of the given type at target.
func (b *Binder) DispatchEvent(target *goja.Object, eventType string, bubbles, cancelable bool) bool {
	ev := NewEvent(eventType, bubbles, cancelable)
	ev.IsTrusted = true
	ev.TimeStamp = b.runtime.Now()
	return b.Dispatch(target, ev)
}
