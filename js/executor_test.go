package js

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webconform/dom"
)

// newTestPage parses html and binds it to a fresh executor without running
// its scripts.
func newTestPage(t *testing.T, html string) (*ScriptExecutor, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseHTML(html)
	require.NoError(t, err)
	executor := NewScriptExecutor(newTestRuntime())
	executor.SetupDocument(doc)
	return executor, doc
}

// eval runs code against the executor's window and exports the result.
func eval(t *testing.T, se *ScriptExecutor, code string) interface{} {
	t.Helper()
	return run(t, se.Runtime(), code)
}

func textOf(t *testing.T, doc *dom.Document, id string) string {
	t.Helper()
	el := doc.GetElementById(id)
	require.NotNil(t, el, "element #%s", id)
	text, _ := el.AsNode().TextContent()
	return text
}

func TestScriptExecutorBasic(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html>
<head></head>
<body>
	<div id="test">Original</div>
	<script>
		document.getElementById('test').textContent = 'Modified';
	</script>
</body>
</html>`)

	errs := executor.ExecuteScripts(context.Background(), doc)
	require.Empty(t, errs)
	assert.Equal(t, "Modified", textOf(t, doc, "test"))
}

func TestScriptExecutorMultipleScripts(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html>
<body>
	<div id="test">0</div>
	<script>var counter = 1;</script>
	<script>counter += 2;</script>
	<script>document.getElementById('test').textContent = counter;</script>
</body>
</html>`)

	require.Empty(t, executor.ExecuteScripts(context.Background(), doc))
	assert.Equal(t, "3", textOf(t, doc, "test"))
}

func TestScriptExecutorLifecycle(t *testing.T) {
	doc, err := dom.ParseHTML(`<!DOCTYPE html>
<html>
<body onload="log.push('body onload ' + document.readyState)">
	<script>
		var log = ['script ' + document.readyState];
		document.addEventListener('DOMContentLoaded', function(e) {
			log.push('DOMContentLoaded ' + document.readyState + ' ' + e.isTrusted);
		});
		window.addEventListener('load', function() {
			log.push('load ' + document.readyState);
		});
	</script>
</body>
</html>`)
	require.NoError(t, err)

	executor := NewScriptExecutor(newTestRuntime())
	require.Empty(t, executor.Load(context.Background(), doc))

	assert.Equal(t, []interface{}{
		"script loading",
		"DOMContentLoaded interactive true",
		"body onload complete",
		"load complete",
	}, eval(t, executor, "log"))
}

func TestScriptExecutorCurrentScript(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html><body>
	<script id="first">var seen = document.currentScript.id;</script>
</body></html>`)

	require.Empty(t, executor.ExecuteScripts(context.Background(), doc))
	assert.Equal(t, "first", eval(t, executor, "seen"))
	assert.Nil(t, eval(t, executor, "document.currentScript"))
}

func TestScriptExecutorNonJSScripts(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html><body>
	<div id="test">Original</div>
	<script type="text/template">this is not javascript</script>
	<script type="module">document.getElementById('test').textContent = 'module';</script>
	<script type="application/json">{"a": 1}</script>
	<script language="vbscript">MsgBox "hi"</script>
	<script type="">var emptyType = true;</script>
	<script type="TEXT/JAVASCRIPT">var upper = true;</script>
</body></html>`)

	require.Empty(t, executor.ExecuteScripts(context.Background(), doc))
	assert.Equal(t, "Original", textOf(t, doc, "test"))
	assert.Equal(t, true, eval(t, executor, "emptyType && upper"))
}

func TestScriptExecutorEmptyScript(t *testing.T) {
	executor, doc := newTestPage(t, `<html><body><script></script><script>   </script></body></html>`)
	assert.Empty(t, executor.ExecuteScripts(context.Background(), doc))
}

func TestScriptExecutorErrorRecovery(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html><body>
	<div id="test">0</div>
	<script>throw new Error('first script fails');</script>
	<script>document.getElementById('test').textContent = 'recovered';</script>
</body></html>`)

	errs := executor.ExecuteScripts(context.Background(), doc)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "first script fails")
	assert.Equal(t, "recovered", textOf(t, doc, "test"))
}

func TestScriptExecutorExternalScripts(t *testing.T) {
	doc, err := dom.ParseHTML(`<!DOCTYPE html>
<html><body>
	<script src="lib.js"></script>
	<script>var total = libValue + 1;</script>
	<script src="missing.js"></script>
</body></html>`)
	require.NoError(t, err)
	doc.SetURL("http://example.test/dir/page.html")

	executor := NewScriptExecutor(newTestRuntime())
	var requested []string
	executor.SetScriptLoader(func(ctx context.Context, src string) (string, error) {
		requested = append(requested, src)
		if strings.HasSuffix(src, "lib.js") {
			return "var libValue = 41;", nil
		}
		return "", errors.New("not found")
	})

	errs := executor.Load(context.Background(), doc)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "http://example.test/dir/missing.js")
	assert.Equal(t, []string{"http://example.test/dir/lib.js", "http://example.test/dir/missing.js"}, requested)
	assert.EqualValues(t, 42, eval(t, executor, "total"))
}

func TestScriptExecutorSkipsExternalWithoutLoader(t *testing.T) {
	executor, doc := newTestPage(t, `<html><body><script src="lib.js"></script></body></html>`)
	assert.Empty(t, executor.ExecuteScripts(context.Background(), doc))
}

func TestScriptExecutorStaticScriptList(t *testing.T) {
	executor, doc := newTestPage(t, `<!DOCTYPE html>
<html><body>
	<script>
		var ran = 0;
		var s = document.createElement('script');
		s.textContent = 'ran++';
		document.body.appendChild(s);
	</script>
</body></html>`)

	require.Empty(t, executor.ExecuteScripts(context.Background(), doc))
	assert.EqualValues(t, 0, eval(t, executor, "ran"))
}

func TestScriptExecutorEventLoop(t *testing.T) {
	doc, err := dom.ParseHTML(`<!DOCTYPE html>
<html><head><title>before</title></head><body>
	<script>
		setTimeout(function() { document.title = 'after'; }, 100);
	</script>
</body></html>`)
	require.NoError(t, err)

	executor := NewScriptExecutor(newTestRuntime())
	require.Empty(t, executor.Load(context.Background(), doc))
	assert.Equal(t, "before", doc.Title())

	require.NoError(t, executor.Runtime().RunUntilIdle(context.Background()))
	assert.Equal(t, "after", doc.Title())
}

func TestScriptExecutorCanceledContext(t *testing.T) {
	executor, doc := newTestPage(t, `<html><body><script>var x = 1;</script></body></html>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := executor.ExecuteScripts(ctx, doc)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestScriptExecutorPrelude(t *testing.T) {
	doc, err := dom.ParseHTML(`<html><head><title></title></head><body>
<script>log('a'); log(typeof helper);</script></body></html>`)
	require.NoError(t, err)

	executor := NewScriptExecutor(newTestRuntime())
	executor.AddPrelude("prelude", `function log(msg) { document.title += msg + '|'; } var helper = 1;`)
	errs := executor.Load(context.Background(), doc)
	require.Empty(t, errs)
	assert.Equal(t, "a|number|", doc.Title())
}
