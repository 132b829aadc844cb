package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DefaultURL is where Tester serves the page under test.
const DefaultURL = "http://localhost:22222/"

// LogSeparator ends every message a page writes with log().
const LogSeparator = "§"

// Preludes defining log() for the title and window.name verifiers.
const (
	LogTitleFunction      = "function log(msg) { window.document.title += msg + '§'; }"
	LogWindowNameFunction = "function log(msg) { window.name += msg + '§'; }"
)

// MismatchError reports that a page produced different output than
// expected.
type MismatchError struct {
	Kind     string
	Expected []string
	Actual   []string
}

func (e *MismatchError) Error() string {
	n := len(e.Expected)
	if len(e.Actual) > n {
		n = len(e.Actual)
	}
	for i := 0; i < n; i++ {
		var want, got string
		if i < len(e.Expected) {
			want = e.Expected[i]
		}
		if i < len(e.Actual) {
			got = e.Actual[i]
		}
		if i >= len(e.Expected) || i >= len(e.Actual) || want != got {
			return fmt.Sprintf("%s mismatch at entry %d: expected %q, got %q (expected %d entries, got %d)",
				e.Kind, i, want, got, len(e.Expected), len(e.Actual))
		}
	}
	return e.Kind + " mismatch"
}

// Tester serves HTML from a MockConnection and verifies what the page
// reports.
type Tester struct {
	conn   *MockConnection
	client *WebClient
	url    string
}

// NewTester creates a tester. Options are passed to the WebClient; the
// connection is always the tester's own mock.
func NewTester(opts ...Option) (*Tester, error) {
	conn := NewMockConnection()
	client, err := NewWebClient(append(opts, WithConnection(conn))...)
	if err != nil {
		return nil, err
	}
	return &Tester{conn: conn, client: client, url: DefaultURL}, nil
}

// Connection returns the mock connection pages are served from.
func (t *Tester) Connection() *MockConnection { return t.conn }

// URL returns the URL the page under test is served at.
func (t *Tester) URL() string { return t.url }

// LoadPage2 serves html at the tester's URL and loads it.
func (t *Tester) LoadPage2(ctx context.Context, html string) (*Page, error) {
	return t.load(ctx, html)
}

func (t *Tester) load(ctx context.Context, html string, preludes ...prelude) (*Page, error) {
	if err := t.conn.SetResponse(t.url, html, "text/html;charset=UTF-8"); err != nil {
		return nil, err
	}
	return t.client.loadPage(ctx, t.url, preludes...)
}

// LoadPageVerifyTitle2 loads html with log() appending to document.title
// and compares the logged messages to expected.
func (t *Tester) LoadPageVerifyTitle2(ctx context.Context, html string, expected ...string) (*Page, error) {
	page, err := t.load(ctx, html, prelude{name: "log-title", code: LogTitleFunction})
	if err != nil {
		return nil, err
	}
	return page, compare("title", expected, SplitLog(page.Title()))
}

// LoadPageVerifyWindowName2 loads html with log() appending to window.name
// and compares the logged messages to expected.
func (t *Tester) LoadPageVerifyWindowName2(ctx context.Context, html string, expected ...string) (*Page, error) {
	page, err := t.load(ctx, html, prelude{name: "log-window-name", code: LogWindowNameFunction})
	if err != nil {
		return nil, err
	}
	return page, compare("window.name", expected, SplitLog(page.WindowName()))
}

// VerifyAlerts loads html and compares its alert() messages to expected.
func (t *Tester) VerifyAlerts(ctx context.Context, html string, expected ...string) (*Page, error) {
	page, err := t.load(ctx, html)
	if err != nil {
		return nil, err
	}
	return page, compare("alerts", expected, page.Alerts())
}

// Close releases the client's resources.
func (t *Tester) Close() {
	t.client.Close()
}

// SplitLog splits log() output into its messages.
func SplitLog(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, LogSeparator), LogSeparator)
}

func compare(kind string, expected, actual []string) error {
	if len(expected) == len(actual) {
		same := true
		for i := range expected {
			if expected[i] != actual[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return &MismatchError{Kind: kind, Expected: expected, Actual: actual}
}

// IsMismatch reports whether err is a MismatchError.
func IsMismatch(err error) bool {
	_, ok := errors.Cause(err).(*MismatchError)
	return ok
}
