package network

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Fetcher fetches a resource by URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// Loader fetches data: URLs itself, file: URLs and bare paths from a
// filesystem, and everything else through a remote Fetcher.
type Loader struct {
	fs     afero.Fs
	remote Fetcher
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem file: URLs are read from. The default is the
// OS filesystem.
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithRemote sets the fetcher used for http: and https: URLs.
func WithRemote(remote Fetcher) LoaderOption {
	return func(l *Loader) {
		l.remote = remote
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch loads rawURL.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "fetching %s", rawURL)
	}
	switch Scheme(rawURL) {
	case "data":
		return l.fetchData(rawURL)
	case "file", "":
		return l.fetchFile(rawURL)
	case "http", "https":
		if l.remote == nil {
			return nil, errors.Errorf("no remote connection for %s", rawURL)
		}
		return l.remote.Fetch(ctx, rawURL)
	}
	return nil, errors.Errorf("unsupported URL scheme in %s", rawURL)
}

func (l *Loader) fetchData(rawURL string) (*Response, error) {
	data, err := ParseDataURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Response{
		URL:         rawURL,
		StatusCode:  200,
		ContentType: data.ContentType(),
		Body:        data.Data,
	}, nil
}

func (l *Loader) fetchFile(rawURL string) (*Response, error) {
	p := rawURL
	if Scheme(rawURL) == "file" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", rawURL)
		}
		p = filepath.FromSlash(u.Path)
	}
	body, err := afero.ReadFile(l.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return &Response{URL: rawURL, StatusCode: 404, ContentType: "text/plain"}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	return &Response{
		URL:         FileURL(p),
		StatusCode:  200,
		ContentType: GuessContentType(p),
		Body:        body,
	}, nil
}

// FileURL returns the file: URL for a filesystem path. Relative paths are
// made absolute against the working directory when possible.
func FileURL(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(p)}).String()
}
