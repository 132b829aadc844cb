// Package network fetches pages and scripts over HTTP, from data: URLs and
// from a filesystem.
package network

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (compatible; webconform/1.0)"

// Response is a fetched resource.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Headers     http.Header
	Body        []byte
	Cached      bool
}

// OK reports whether the status code is 2xx or 3xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// HTTPConnection fetches resources with net/http. It keeps cookies between
// requests and can cache responses.
type HTTPConnection struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	cache        *Cache
	logger       logrus.FieldLogger
}

// Option configures an HTTPConnection.
type Option func(*HTTPConnection)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPConnection) {
		c.timeout = d
	}
}

// WithMaxRedirects sets the number of redirects followed before failing.
func WithMaxRedirects(n int) Option {
	return func(c *HTTPConnection) {
		c.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPConnection) {
		c.userAgent = ua
	}
}

// WithCache caches successful GET responses in cache.
func WithCache(cache *Cache) Option {
	return func(c *HTTPConnection) {
		c.cache = cache
	}
}

// WithLogger sets the logger requests are reported to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *HTTPConnection) {
		c.logger = logger
	}
}

// NewHTTPConnection creates a connection with the given options.
func NewHTTPConnection(opts ...Option) (*HTTPConnection, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}

	c := &HTTPConnection{
		timeout:      30 * time.Second,
		maxRedirects: 10,
		userAgent:    DefaultUserAgent,
		logger:       discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	c.httpClient = &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return errors.Errorf("stopped after %d redirects", c.maxRedirects)
			}
			return nil
		},
	}
	return c, nil
}

// UserAgent returns the User-Agent header value.
func (c *HTTPConnection) UserAgent() string {
	return c.userAgent
}

// CloseIdleConnections closes idle keep-alive connections.
func (c *HTTPConnection) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Fetch performs a GET request for rawURL.
func (c *HTTPConnection) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if c.cache != nil {
		if entry, ok := c.cache.Get(rawURL); ok && !entry.IsExpired() {
			resp := *entry.Response
			resp.Cached = true
			return &resp, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", rawURL)
	}
	defer httpResp.Body.Close()

	var reader io.Reader = httpResp.Body
	if strings.EqualFold(httpResp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(httpResp.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding gzip body of %s", rawURL)
		}
		defer gz.Close()
		reader = gz
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "reading body of %s", rawURL)
	}

	resp := &Response{
		URL:         httpResp.Request.URL.String(),
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Headers:     httpResp.Header,
		Body:        body,
	}
	c.logger.WithFields(logrus.Fields{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start),
	}).Debug("fetched")

	if c.cache != nil && resp.OK() {
		c.cache.Set(rawURL, resp, httpResp.Header)
	}
	return resp, nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ParseContentType splits a Content-Type header into its lowercased media
// type and charset.
func ParseContentType(contentType string) (mediaType, charset string) {
	if contentType == "" {
		return "application/octet-stream", ""
	}
	parts := strings.Split(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			charset = strings.Trim(part[len("charset="):], `"`)
			charset = strings.ToLower(charset)
			break
		}
	}
	return mediaType, charset
}

// IsHTMLContentType reports whether contentType is parsed as HTML.
func IsHTMLContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	return mediaType == "text/html"
}

// IsXMLContentType reports whether contentType is parsed as an XML
// document.
func IsXMLContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	switch mediaType {
	case "text/xml", "application/xml", "application/xhtml+xml", "image/svg+xml":
		return true
	}
	return strings.HasSuffix(mediaType, "+xml")
}

// IsJavaScriptContentType reports whether contentType names JavaScript.
func IsJavaScriptContentType(contentType string) bool {
	mediaType, _ := ParseContentType(contentType)
	switch mediaType {
	case "text/javascript", "application/javascript", "application/x-javascript", "application/ecmascript":
		return true
	}
	return false
}
