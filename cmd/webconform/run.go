package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func getRunCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "run <url|file>...",
		Short: "Load pages and print what their scripts report",
		Long: `Load each page, run its scripts until the event loop is idle, and print
the document title, alert() messages, console output and script errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			p := newPrinter(c.stdout, c.colorize())
			failed := 0
			for _, arg := range args {
				page, err := client.LoadPage(cmd.Context(), arg)
				if err != nil {
					c.logger.WithError(err).Error("load failed")
					failed++
					continue
				}
				p.printf("%s\n", page.URL())
				p.printf("  title: %q\n", page.Title())
				for _, a := range page.Alerts() {
					p.printf("  alert: %s\n", a)
				}
				for _, e := range page.ConsoleLog() {
					p.printf("  console.%s: %s\n", e.Level, e.Message)
				}
				errs := page.ScriptErrors()
				for _, e := range errs {
					p.printf("  %s %s\n", p.fail.Sprint("error:"), e)
				}
				if err := page.SettleError(); err != nil {
					p.printf("  %s %s\n", p.skip.Sprint("unsettled:"), err)
				}
				if len(errs) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return ExitCode{errors.Errorf("%d of %d pages had errors", failed, len(args)), 1}
			}
			return nil
		},
	}
}
