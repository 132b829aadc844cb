package network

import (
	"encoding/base64"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ResolveURL resolves ref against base. Absolute references, including
// data: and javascript: URLs, are returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid reference URL %q", ref)
	}
	if refURL.IsAbs() || base == "" {
		return ref, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base URL %q", base)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// IsAbsoluteURL reports whether rawURL has a scheme.
func IsAbsoluteURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.IsAbs()
}

// Scheme returns the lowercased scheme of rawURL, or "".
func Scheme(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// IsDataURL reports whether rawURL is a data: URL.
func IsDataURL(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(rawURL), "data:")
}

// DataURL is a decoded data: URL.
type DataURL struct {
	MediaType string
	Charset   string
	Base64    bool
	Data      []byte
}

// ContentType returns the media type with its charset parameter.
func (d *DataURL) ContentType() string {
	if d.Charset == "" {
		return d.MediaType
	}
	return d.MediaType + ";charset=" + d.Charset
}

// ParseDataURL decodes data:[<mediatype>][;base64],<data>.
func ParseDataURL(rawURL string) (*DataURL, error) {
	if !IsDataURL(rawURL) {
		return nil, errors.Errorf("not a data URL: %q", rawURL)
	}
	content := rawURL[len("data:"):]
	comma := strings.IndexByte(content, ',')
	if comma < 0 {
		return nil, errors.New("invalid data URL: missing comma")
	}
	metadata, data := content[:comma], content[comma+1:]

	result := &DataURL{MediaType: "text/plain", Charset: "US-ASCII"}
	for i, part := range strings.Split(metadata, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.EqualFold(part, "base64"):
			result.Base64 = true
		case strings.HasPrefix(strings.ToLower(part), "charset="):
			result.Charset = part[len("charset="):]
		case i == 0 && part != "":
			result.MediaType = strings.ToLower(part)
		}
	}

	if result.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding base64 data URL")
		}
		result.Data = decoded
		return result, nil
	}
	decoded, err := url.PathUnescape(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding data URL")
	}
	result.Data = []byte(decoded)
	return result, nil
}

// GuessContentType guesses a content type from the extension of the URL's
// path.
func GuessContentType(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(strings.TrimPrefix(path.Ext(p), ".")) {
	case "html", "htm":
		return "text/html"
	case "xhtml", "xht":
		return "application/xhtml+xml"
	case "xml":
		return "application/xml"
	case "svg":
		return "image/svg+xml"
	case "js", "mjs":
		return "text/javascript"
	case "json":
		return "application/json"
	case "yaml", "yml":
		return "application/yaml"
	case "css":
		return "text/css"
	case "txt":
		return "text/plain"
	}
	return "application/octet-stream"
}
