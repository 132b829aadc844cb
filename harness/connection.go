// Package harness loads pages into the emulated browser and checks what
// their scripts report through the title, window.name or alert().
package harness

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/chrisuehlinger/webconform/network"
)

// Response is a fetched resource.
type Response = network.Response

// WebConnection fetches the resources a WebClient needs.
type WebConnection interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// BrowserProfile is the browser identity a WebClient presents.
type BrowserProfile struct {
	Name      string
	UserAgent string
}

var (
	ProfileDefault = BrowserProfile{
		Name:      "webconform",
		UserAgent: network.DefaultUserAgent,
	}
	ProfileChrome = BrowserProfile{
		Name:      "chrome",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	}
	ProfileFirefox = BrowserProfile{
		Name:      "firefox",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	}
	ProfileEdge = BrowserProfile{
		Name:      "edge",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
	}
)

var profiles = map[string]BrowserProfile{
	ProfileDefault.Name: ProfileDefault,
	ProfileChrome.Name:  ProfileChrome,
	ProfileFirefox.Name: ProfileFirefox,
	ProfileEdge.Name:    ProfileEdge,
}

// LookupProfile returns the predefined profile called name.
func LookupProfile(name string) (BrowserProfile, bool) {
	p, ok := profiles[strings.ToLower(name)]
	return p, ok
}

// MockConnection serves canned responses from an in-memory filesystem and
// records every URL it is asked for.
type MockConnection struct {
	mu          sync.Mutex
	fs          afero.Fs
	responses   map[string]mockResponse
	defaultResp *mockResponse
	requests    []string
}

type mockResponse struct {
	path        string
	statusCode  int
	contentType string
}

// NewMockConnection creates an empty mock connection.
func NewMockConnection() *MockConnection {
	return &MockConnection{
		fs:        afero.NewMemMapFs(),
		responses: make(map[string]mockResponse),
	}
}

// SetResponse serves body with status 200 for rawURL.
func (m *MockConnection) SetResponse(rawURL, body, contentType string) error {
	return m.SetResponseWithStatus(rawURL, body, 200, contentType)
}

// SetResponseWithStatus serves body with the given status for rawURL.
func (m *MockConnection) SetResponseWithStatus(rawURL, body string, statusCode int, contentType string) error {
	key := mockKey(rawURL)
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/responses/" + url.PathEscape(key)
	if err := afero.WriteFile(m.fs, path, []byte(body), 0o644); err != nil {
		return errors.Wrapf(err, "storing response for %s", rawURL)
	}
	m.responses[key] = mockResponse{path: path, statusCode: statusCode, contentType: contentType}
	return nil
}

// SetDefaultResponse serves body for every URL without its own response.
func (m *MockConnection) SetDefaultResponse(body, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	const path = "/responses/default"
	if err := afero.WriteFile(m.fs, path, []byte(body), 0o644); err != nil {
		return errors.Wrap(err, "storing default response")
	}
	m.defaultResp = &mockResponse{path: path, statusCode: 200, contentType: contentType}
	return nil
}

// Requests returns the requested URLs in order.
func (m *MockConnection) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// Fetch returns the response registered for rawURL, the default response,
// or a 404.
func (m *MockConnection) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "fetching %s", rawURL)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, rawURL)

	mock, ok := m.responses[mockKey(rawURL)]
	if !ok {
		if m.defaultResp == nil {
			return &Response{URL: rawURL, StatusCode: 404, ContentType: "text/plain", Body: []byte("Not Found")}, nil
		}
		mock = *m.defaultResp
	}
	body, err := afero.ReadFile(m.fs, mock.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response for %s", rawURL)
	}
	return &Response{
		URL:         rawURL,
		StatusCode:  mock.statusCode,
		ContentType: mock.contentType,
		Body:        body,
	}, nil
}

// mockKey drops the fragment, which is never sent to a server.
func mockKey(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
