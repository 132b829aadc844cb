package js

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/webconform/dom"
	"github.com/chrisuehlinger/webconform/network"
)

// ScriptLoader fetches the source of an external script.
type ScriptLoader func(ctx context.Context, src string) (string, error)

// javaScriptTypes are the script type values that run as classic scripts.
var javaScriptTypes = map[string]bool{
	"":                         true,
	"text/javascript":          true,
	"application/javascript":   true,
	"application/ecmascript":   true,
	"application/x-javascript": true,
	"text/ecmascript":          true,
	"text/jscript":             true,
	"text/livescript":          true,
	"text/x-javascript":        true,
	"text/x-ecmascript":        true,
	"text/javascript1.0":       true,
	"text/javascript1.1":       true,
	"text/javascript1.2":       true,
	"text/javascript1.3":       true,
	"text/javascript1.4":       true,
	"text/javascript1.5":       true,
}

// ScriptExecutor runs the scripts of a document and drives its load
// lifecycle.
type ScriptExecutor struct {
	runtime  *Runtime
	binder   *Binder
	loader   ScriptLoader
	logger   logrus.FieldLogger
	preludes []prelude
}

type prelude struct {
	source string
	code   string
}

// NewScriptExecutor creates an executor with a fresh binder on rt.
func NewScriptExecutor(rt *Runtime) *ScriptExecutor {
	return &ScriptExecutor{
		runtime: rt,
		binder:  NewBinder(rt),
		logger:  rt.Logger().WithField("component", "executor"),
	}
}

func (se *ScriptExecutor) Runtime() *Runtime { return se.runtime }
func (se *ScriptExecutor) Binder() *Binder   { return se.binder }

// SetScriptLoader sets the loader used for <script src>. Without one,
// external scripts are skipped.
func (se *ScriptExecutor) SetScriptLoader(loader ScriptLoader) {
	se.loader = loader
}

// AddPrelude registers code that Load runs after binding the document and
// before any of the document's own scripts.
func (se *ScriptExecutor) AddPrelude(source, code string) {
	se.preludes = append(se.preludes, prelude{source: source, code: code})
}

// SetupDocument binds doc as the window's document.
func (se *ScriptExecutor) SetupDocument(doc *dom.Document) {
	se.binder.BindDocument(doc)
	se.binder.readyState = "loading"
}

// Load runs the whole page lifecycle for doc: bind, execute scripts,
// DOMContentLoaded, load. Script errors are returned, not fatal.
func (se *ScriptExecutor) Load(ctx context.Context, doc *dom.Document) []error {
	se.SetupDocument(doc)
	var errs []error
	for _, p := range se.preludes {
		if err := se.runtime.ExecuteScript(p.code, p.source); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, se.ExecuteScripts(ctx, doc)...)
	se.runtime.RunMicrotasks()
	se.DispatchDOMContentLoaded()
	se.runtime.RunMicrotasks()
	se.DispatchLoadEvent()
	se.runtime.RunMicrotasks()
	return errs
}

// ExecuteScripts executes the document's script elements in tree order.
// Scripts inserted while running are not picked up.
func (se *ScriptExecutor) ExecuteScripts(ctx context.Context, doc *dom.Document) []error {
	scripts := doc.AsNode().GetElementsByTagName("script").ToSlice()
	var errs []error
	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.Wrap(err, "executing scripts"))
			break
		}
		if err := se.executeScript(ctx, doc, script); err != nil {
			errs = append(errs, err)
		}
		se.runtime.RunMicrotasks()
	}
	return errs
}

func (se *ScriptExecutor) executeScript(ctx context.Context, doc *dom.Document, script *dom.Element) error {
	if !isClassicScript(script) {
		typ, _ := script.GetAttribute("type")
		se.logger.WithField("type", typ).Debug("skipping non-JavaScript script")
		return nil
	}

	source := "inline"
	var code string
	if src, ok := script.GetAttribute("src"); ok {
		if se.loader == nil {
			se.logger.WithField("src", src).Debug("no loader for external script")
			return nil
		}
		resolved := resolveURL(doc.URL(), src)
		body, err := se.loader(ctx, resolved)
		if err != nil {
			return errors.Wrapf(err, "loading script %s", resolved)
		}
		source, code = resolved, body
	} else {
		code, _ = script.AsNode().TextContent()
		if id := script.Id(); id != "" {
			source = "inline#" + id
		}
	}
	if strings.TrimSpace(code) == "" {
		return nil
	}

	se.binder.current = script.AsNode()
	defer func() { se.binder.current = nil }()
	return se.runtime.ExecuteScript(code, source)
}

func isClassicScript(script *dom.Element) bool {
	if typ, ok := script.GetAttribute("type"); ok {
		typ = strings.ToLower(strings.TrimSpace(typ))
		return typ == "" || javaScriptTypes[typ]
	}
	lang, ok := script.GetAttribute("language")
	if !ok || lang == "" {
		return true
	}
	return javaScriptTypes["text/"+strings.ToLower(strings.TrimSpace(lang))]
}

// resolveURL resolves ref against base, returning ref unchanged when
// either does not parse.
func resolveURL(base, ref string) string {
	resolved, err := network.ResolveURL(base, ref)
	if err != nil {
		return ref
	}
	return resolved
}

// DispatchDOMContentLoaded moves the document to "interactive" and fires
// DOMContentLoaded at it.
func (se *ScriptExecutor) DispatchDOMContentLoaded() {
	doc := se.binder.document
	if doc == nil {
		return
	}
	se.binder.readyState = "interactive"
	se.binder.DispatchEvent(se.binder.Node(doc.AsNode()), "DOMContentLoaded", true, false)
}

// DispatchLoadEvent moves the document to "complete" and fires load at
// the window.
func (se *ScriptExecutor) DispatchLoadEvent() {
	se.binder.readyState = "complete"
	se.binder.DispatchEvent(se.runtime.window, "load", false, false)
}
