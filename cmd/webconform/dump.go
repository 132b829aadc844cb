package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/webconform/dom"
)

func getDumpCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <url|file>",
		Short: "Print the DOM tree of a page after its scripts have run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			page, err := client.LoadPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, e := range page.ScriptErrors() {
				c.logger.WithError(e).Warn("script error")
			}
			_, err = c.stdout.Write([]byte(dom.DumpTree(page.Document().AsNode())))
			return err
		},
	}
}
