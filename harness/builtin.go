package harness

import (
	"embed"
	"path"
	"sort"

	"github.com/pkg/errors"
)

//go:embed testdata/*.yaml
var builtinFS embed.FS

// BuiltinSuites returns the bundled conformance suites ordered by file
// name.
func BuiltinSuites() ([]*Suite, error) {
	entries, err := builtinFS.ReadDir("testdata")
	if err != nil {
		return nil, errors.Wrap(err, "listing builtin suites")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	suites := make([]*Suite, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(path.Join("testdata", name))
		if err != nil {
			return nil, errors.Wrapf(err, "reading builtin suite %s", name)
		}
		s, err := ParseSuite(data)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		suites = append(suites, s)
	}
	return suites, nil
}
