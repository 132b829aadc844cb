package harness

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Mode selects how a case's page reports its results.
type Mode string

const (
	ModeTitle      Mode = "title"
	ModeAlerts     Mode = "alerts"
	ModeWindowName Mode = "windowName"
)

func (m Mode) valid() bool {
	switch m {
	case ModeTitle, ModeAlerts, ModeWindowName:
		return true
	}
	return false
}

// Case is one page and the messages it is expected to report.
type Case struct {
	Name     string   `yaml:"name"`
	HTML     string   `yaml:"html"`
	Expected []string `yaml:"expected"`
	Mode     Mode     `yaml:"mode,omitempty"`
	Skip     string   `yaml:"skip,omitempty"`
}

// Suite is a named list of cases.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Mode        Mode   `yaml:"mode,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// ParseSuite decodes and validates a YAML suite. Cases without a mode
// inherit the suite's, which defaults to title.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding suite")
	}
	if s.Name == "" {
		return nil, errors.New("suite has no name")
	}
	if s.Mode == "" {
		s.Mode = ModeTitle
	}
	if !s.Mode.valid() {
		return nil, errors.Errorf("suite %s: unknown mode %q", s.Name, s.Mode)
	}
	if len(s.Cases) == 0 {
		return nil, errors.Errorf("suite %s has no cases", s.Name)
	}
	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			return nil, errors.Errorf("suite %s: case %d has no name", s.Name, i)
		}
		if seen[c.Name] {
			return nil, errors.Errorf("suite %s: duplicate case %q", s.Name, c.Name)
		}
		seen[c.Name] = true
		if c.HTML == "" && c.Skip == "" {
			return nil, errors.Errorf("suite %s: case %s has no html", s.Name, c.Name)
		}
		if c.Mode == "" {
			c.Mode = s.Mode
		}
		if !c.Mode.valid() {
			return nil, errors.Errorf("suite %s: case %s: unknown mode %q", s.Name, c.Name, c.Mode)
		}
	}
	return &s, nil
}

// LoadSuite reads and parses the suite at path.
func LoadSuite(fs afero.Fs, path string) (*Suite, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading suite %s", path)
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return s, nil
}

// Status is the outcome of a case.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SuiteResult is the outcome of a suite.
type SuiteResult struct {
	Suite    string        `json:"suite"`
	Cases    []CaseResult  `json:"cases"`
	Duration time.Duration `json:"duration"`
}

// Run runs every case through t. A canceled context stops the run; the
// remaining cases are reported as errors.
func (s *Suite) Run(ctx context.Context, t *Tester) SuiteResult {
	start := time.Now()
	result := SuiteResult{Suite: s.Name, Cases: make([]CaseResult, 0, len(s.Cases))}
	for _, c := range s.Cases {
		result.Cases = append(result.Cases, s.runCase(ctx, t, c))
	}
	result.Duration = time.Since(start)
	return result
}

func (s *Suite) runCase(ctx context.Context, t *Tester, c Case) CaseResult {
	if c.Skip != "" {
		return CaseResult{Name: c.Name, Status: StatusSkip, Message: c.Skip}
	}
	start := time.Now()
	res := CaseResult{Name: c.Name}
	if err := ctx.Err(); err != nil {
		res.Status, res.Message = StatusError, err.Error()
		return res
	}

	var page *Page
	var err error
	switch c.Mode {
	case ModeAlerts:
		page, err = t.VerifyAlerts(ctx, c.HTML, c.Expected...)
	case ModeWindowName:
		page, err = t.LoadPageVerifyWindowName2(ctx, c.HTML, c.Expected...)
	default:
		page, err = t.LoadPageVerifyTitle2(ctx, c.HTML, c.Expected...)
	}
	res.Duration = time.Since(start)

	switch {
	case err == nil:
		res.Status = StatusPass
	case IsMismatch(err):
		res.Status, res.Message = StatusFail, err.Error()
		if page != nil {
			if errs := page.ScriptErrors(); len(errs) > 0 {
				res.Message += "; first script error: " + errs[0].Error()
			}
		}
	default:
		res.Status, res.Message = StatusError, err.Error()
	}
	return res
}

// Report collects suite results.
type Report struct {
	Suites []SuiteResult `json:"suites"`
}

// Add appends a suite result.
func (r *Report) Add(result SuiteResult) {
	r.Suites = append(r.Suites, result)
}

// Summary counts case outcomes.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// OK reports whether no case failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

// Summary counts the outcomes of every case in the report.
func (r *Report) Summary() Summary {
	var s Summary
	for _, suite := range r.Suites {
		for _, c := range suite.Cases {
			s.Total++
			switch c.Status {
			case StatusPass:
				s.Passed++
			case StatusFail:
				s.Failed++
			case StatusError:
				s.Errored++
			case StatusSkip:
				s.Skipped++
			}
		}
	}
	return s
}

// ExportJSON encodes the report and its summary.
func (r *Report) ExportJSON() ([]byte, error) {
	out := struct {
		Summary Summary       `json:"summary"`
		Suites  []SuiteResult `json:"suites"`
	}{r.Summary(), r.Suites}
	return json.MarshalIndent(out, "", "  ")
}
