package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/chrisuehlinger/webconform/harness"
)

type printer struct {
	w     io.Writer
	pass  *color.Color
	fail  *color.Color
	skip  *color.Color
	faint *color.Color
}

func newPrinter(w io.Writer, colorize bool) *printer {
	p := &printer{
		w:     w,
		pass:  color.New(color.FgGreen),
		fail:  color.New(color.FgRed, color.Bold),
		skip:  color.New(color.FgYellow),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.skip, p.faint} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *printer) status(s harness.Status) string {
	switch s {
	case harness.StatusPass:
		return p.pass.Sprint("PASS ")
	case harness.StatusFail:
		return p.fail.Sprint("FAIL ")
	case harness.StatusError:
		return p.fail.Sprint("ERROR")
	case harness.StatusSkip:
		return p.skip.Sprint("SKIP ")
	}
	return string(s)
}

func (p *printer) suiteResult(r harness.SuiteResult) {
	p.printf("%s %s\n", r.Suite, p.faint.Sprintf("(%s)", r.Duration))
	for _, c := range r.Cases {
		p.printf("  %s %s\n", p.status(c.Status), c.Name)
		if c.Message != "" && c.Status != harness.StatusPass {
			p.printf("        %s\n", p.faint.Sprint(c.Message))
		}
	}
}

func (p *printer) summary(s harness.Summary) {
	line := fmt.Sprintf("%d cases: %d passed, %d failed, %d errored, %d skipped",
		s.Total, s.Passed, s.Failed, s.Errored, s.Skipped)
	if s.OK() {
		p.printf("\n%s\n", p.pass.Sprint(line))
	} else {
		p.printf("\n%s\n", p.fail.Sprint(line))
	}
}
