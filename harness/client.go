package harness

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/chrisuehlinger/webconform/dom"
	"github.com/chrisuehlinger/webconform/js"
	"github.com/chrisuehlinger/webconform/network"
)

// DefaultPageTimeout bounds how long a page may keep its event loop busy
// after loading.
const DefaultPageTimeout = 10 * time.Second

// WebClient loads pages through a WebConnection and runs their scripts.
type WebClient struct {
	conn               WebConnection
	fs                 afero.Fs
	profile            BrowserProfile
	logger             logrus.FieldLogger
	timeout            time.Duration
	maxTimerIterations int
}

// Option configures a WebClient.
type Option func(*WebClient)

// WithConnection sets the connection http: and https: URLs are fetched
// through. The default is a network.HTTPConnection.
func WithConnection(conn WebConnection) Option {
	return func(c *WebClient) {
		c.conn = conn
	}
}

// WithFs sets the filesystem file: URLs and bare paths are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *WebClient) {
		c.fs = fs
	}
}

// WithProfile sets the browser profile.
func WithProfile(profile BrowserProfile) Option {
	return func(c *WebClient) {
		c.profile = profile
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *WebClient) {
		c.logger = logger
	}
}

// WithTimeout sets the page timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *WebClient) {
		c.timeout = d
	}
}

// WithMaxTimerIterations sets how many event loop steps a page may take
// before it is considered runaway.
func WithMaxTimerIterations(n int) Option {
	return func(c *WebClient) {
		c.maxTimerIterations = n
	}
}

// NewWebClient creates a client.
func NewWebClient(opts ...Option) (*WebClient, error) {
	c := &WebClient{
		fs:                 afero.NewOsFs(),
		profile:            ProfileDefault,
		timeout:            DefaultPageTimeout,
		maxTimerIterations: js.DefaultMaxTimerIterations,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
	if c.conn == nil {
		conn, err := network.NewHTTPConnection(
			network.WithUserAgent(c.profile.UserAgent),
			network.WithTimeout(c.timeout),
			network.WithCache(network.NewCache(0)),
			network.WithLogger(c.logger),
		)
		if err != nil {
			return nil, errors.Wrap(err, "creating connection")
		}
		c.conn = conn
	}
	return c, nil
}

// Profile returns the client's browser profile.
func (c *WebClient) Profile() BrowserProfile {
	return c.profile
}

// Close releases idle network connections.
func (c *WebClient) Close() {
	if closer, ok := c.conn.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

func (c *WebClient) loader() *network.Loader {
	return network.NewLoader(network.WithFs(c.fs), network.WithRemote(c.conn))
}

// LoadPage fetches rawURL, runs its scripts and lets its event loop settle.
func (c *WebClient) LoadPage(ctx context.Context, rawURL string) (*Page, error) {
	return c.loadPage(ctx, rawURL)
}

// prelude is a script run before the page's own scripts.
type prelude struct {
	name string
	code string
}

func (c *WebClient) loadPage(ctx context.Context, rawURL string, preludes ...prelude) (*Page, error) {
	logger := c.logger.WithField("url", rawURL)
	start := time.Now()

	loader := c.loader()
	resp, err := loader.Fetch(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "loading page %s", rawURL)
	}
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("loading page %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := parseDocument(resp)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing page %s", rawURL)
	}
	doc.SetURL(resp.URL)

	rt := js.NewRuntime(js.Options{
		Logger:             logger,
		UserAgent:          c.profile.UserAgent,
		MaxTimerIterations: c.maxTimerIterations,
	})
	executor := js.NewScriptExecutor(rt)
	executor.SetScriptLoader(func(ctx context.Context, src string) (string, error) {
		resp, err := loader.Fetch(ctx, src)
		if err != nil {
			return "", err
		}
		if !resp.OK() {
			return "", errors.Errorf("status %d", resp.StatusCode)
		}
		return resp.Text(), nil
	})
	for _, p := range preludes {
		executor.AddPrelude(p.name, p.code)
	}

	page := &Page{url: resp.URL, doc: doc, runtime: rt}
	for _, err := range executor.Load(ctx, doc) {
		if _, ok := err.(*js.ScriptError); !ok {
			page.loadErrors = append(page.loadErrors, err)
		}
	}

	settleCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := rt.RunUntilIdle(settleCtx); err != nil {
		logger.WithError(err).Warn("page did not settle")
		page.settleErr = err
	}

	logger.WithFields(logrus.Fields{
		"duration": time.Since(start),
		"errors":   len(page.ScriptErrors()),
		"alerts":   len(rt.Alerts()),
	}).Debug("page loaded")
	return page, nil
}

func parseDocument(resp *Response) (*dom.Document, error) {
	if network.IsXMLContentType(resp.ContentType) {
		mediaType, _ := network.ParseContentType(resp.ContentType)
		return dom.ParseXML(bytes.NewReader(resp.Body), mediaType)
	}
	return dom.ParseHTMLReader(bytes.NewReader(resp.Body))
}

// Page is a loaded document together with the script state it produced.
type Page struct {
	url        string
	doc        *dom.Document
	runtime    *js.Runtime
	loadErrors []error
	settleErr  error
}

// URL returns the final URL of the page.
func (p *Page) URL() string { return p.url }

// Document returns the page's document.
func (p *Page) Document() *dom.Document { return p.doc }

// Title returns document.title.
func (p *Page) Title() string { return p.doc.Title() }

// WindowName returns window.name.
func (p *Page) WindowName() string { return p.runtime.WindowName() }

// Alerts returns the alert() messages in call order.
func (p *Page) Alerts() []string { return p.runtime.Alerts() }

// ConsoleLog returns the console output.
func (p *Page) ConsoleLog() []js.ConsoleEntry { return p.runtime.ConsoleLog() }

// ScriptErrors returns uncaught script errors followed by failures to load
// external scripts.
func (p *Page) ScriptErrors() []error {
	return append(p.runtime.Errors(), p.loadErrors...)
}

// SettleError returns why the event loop was abandoned, or nil when the
// page went idle.
func (p *Page) SettleError() error { return p.settleErr }

// Execute runs script in the page and returns its exported completion
// value. Work the script queues is run before returning.
func (p *Page) Execute(ctx context.Context, script string) (interface{}, error) {
	v, err := p.runtime.Execute(script)
	if err != nil {
		return nil, err
	}
	p.runtime.RunMicrotasks()
	if err := p.runtime.RunUntilIdle(ctx); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.Export(), nil
}
