package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSuite = `
name: sample
mode: alerts
cases:
  - name: passes
    html: "<script>alert('ok')</script>"
    expected: [ok]
  - name: fails
    html: "<script>alert('no'); undefinedFunction();</script>"
    expected: [yes]
  - name: title mode
    mode: title
    html: "<script>log('t1'); log('t2')</script>"
    expected: [t1, t2]
  - name: window name mode
    mode: windowName
    html: "<script>log('w')</script>"
    expected: [w]
  - name: skipped
    skip: not implemented
`

func TestParseSuite(t *testing.T) {
	s, err := ParseSuite([]byte(sampleSuite))
	require.NoError(t, err)
	assert.Equal(t, "sample", s.Name)
	require.Len(t, s.Cases, 5)
	assert.Equal(t, ModeAlerts, s.Cases[0].Mode)
	assert.Equal(t, ModeTitle, s.Cases[2].Mode)
	assert.Equal(t, ModeWindowName, s.Cases[3].Mode)
	assert.Equal(t, "not implemented", s.Cases[4].Skip)

	s, err = ParseSuite([]byte("name: defaults\ncases:\n  - name: a\n    html: x\n"))
	require.NoError(t, err)
	assert.Equal(t, ModeTitle, s.Mode)
	assert.Equal(t, ModeTitle, s.Cases[0].Mode)
}

func TestParseSuiteErrors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "name: [",
		"no name":        "cases:\n  - name: a\n    html: x\n",
		"no cases":       "name: empty\n",
		"bad suite mode": "name: s\nmode: console\ncases:\n  - name: a\n    html: x\n",
		"bad case mode":  "name: s\ncases:\n  - name: a\n    html: x\n    mode: dom\n",
		"unnamed case":   "name: s\ncases:\n  - html: x\n",
		"duplicate case": "name: s\ncases:\n  - name: a\n    html: x\n  - name: a\n    html: y\n",
		"no html":        "name: s\ncases:\n  - name: a\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSuite([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadSuite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/suites/sample.yaml", []byte(sampleSuite), 0o644))

	s, err := LoadSuite(fs, "/suites/sample.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sample", s.Name)

	_, err = LoadSuite(fs, "/suites/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/suites/bad.yaml", []byte("name: bad\n"), 0o644))
	_, err = LoadSuite(fs, "/suites/bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/suites/bad.yaml")
}

func TestSuiteRun(t *testing.T) {
	s, err := ParseSuite([]byte(sampleSuite))
	require.NoError(t, err)
	tester := newTester(t)

	result := s.Run(context.Background(), tester)
	assert.Equal(t, "sample", result.Suite)
	require.Len(t, result.Cases, 5)

	statuses := make(map[string]Status)
	for _, c := range result.Cases {
		statuses[c.Name] = c.Status
	}
	assert.Equal(t, map[string]Status{
		"passes":           StatusPass,
		"fails":            StatusFail,
		"title mode":       StatusPass,
		"window name mode": StatusPass,
		"skipped":          StatusSkip,
	}, statuses)

	failed := result.Cases[1]
	assert.Contains(t, failed.Message, `expected "yes", got "no"`)
	assert.Contains(t, failed.Message, "undefinedFunction")

	var report Report
	report.Add(result)
	summary := report.Summary()
	assert.Equal(t, Summary{Total: 5, Passed: 3, Failed: 1, Skipped: 1}, summary)
	assert.False(t, summary.OK())

	data, err := report.ExportJSON()
	require.NoError(t, err)
	var decoded struct {
		Summary Summary `json:"summary"`
		Suites  []struct {
			Suite string `json:"suite"`
			Cases []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"cases"`
		} `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded.Summary)
	require.Len(t, decoded.Suites, 1)
	assert.Equal(t, "skip", decoded.Suites[0].Cases[4].Status)
}

func TestSuiteRunCanceled(t *testing.T) {
	s, err := ParseSuite([]byte(sampleSuite))
	require.NoError(t, err)
	tester := newTester(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := s.Run(ctx, tester)

	var report Report
	report.Add(result)
	summary := report.Summary()
	assert.Equal(t, 4, summary.Errored)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, tester.Connection().Requests())
}

func TestBuiltinSuites(t *testing.T) {
	suites, err := BuiltinSuites()
	require.NoError(t, err)

	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"dataset",
		"DOMException",
		"DOMImplementation",
		"DOMMatrix and DOMPoint",
		"Selection and Range",
		"TreeWalker",
		"XPath",
	}, names)
}

func TestBuiltinSuitesPass(t *testing.T) {
	suites, err := BuiltinSuites()
	require.NoError(t, err)
	tester := newTester(t)

	for _, s := range suites {
		result := s.Run(context.Background(), tester)
		for _, c := range result.Cases {
			assert.Equal(t, StatusPass, c.Status, "%s / %s: %s", s.Name, c.Name, c.Message)
		}
	}
}
