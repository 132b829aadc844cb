package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/webconform/harness"
)

func getSuiteCmd(c *rootCommand) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "suite [suite.yaml]...",
		Short: "Run conformance suites",
		Long: `Run the given YAML suites. Without arguments the suites listed in the
config file are run, and without those the bundled suites.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			suites, err := c.suites(args)
			if err != nil {
				return err
			}
			tester, err := c.newTester()
			if err != nil {
				return err
			}
			defer tester.Close()

			p := newPrinter(c.stdout, c.colorize())
			var report harness.Report
			for _, s := range suites {
				c.logger.WithField("suite", s.Name).Debug("running suite")
				result := s.Run(cmd.Context(), tester)
				report.Add(result)
				if !jsonOut {
					p.suiteResult(result)
				}
			}

			summary := report.Summary()
			if jsonOut {
				data, err := report.ExportJSON()
				if err != nil {
					return err
				}
				p.printf("%s\n", data)
			} else {
				p.summary(summary)
			}
			if !summary.OK() {
				return ExitCode{errors.Errorf("%d failed, %d errored", summary.Failed, summary.Errored), 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return cmd
}

func (c *rootCommand) suites(args []string) ([]*harness.Suite, error) {
	paths := args
	if len(paths) == 0 {
		paths = c.conf.Suites
	}
	if len(paths) == 0 {
		return harness.BuiltinSuites()
	}
	suites := make([]*harness.Suite, 0, len(paths))
	for _, path := range paths {
		s, err := harness.LoadSuite(c.fs, path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

func (c *rootCommand) newTester() (*harness.Tester, error) {
	opts, err := c.conf.ClientOptions(c.logger)
	if err != nil {
		return nil, err
	}
	return harness.NewTester(opts...)
}
