// Package sources implements the sources command group.
package sources

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/finscope/newscrawl/cmd/common"
)

// Command returns the sources command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage the source registry",
	}

	cmd.AddCommand(listCommand())

	return cmd
}

// listCommand returns the sources list command.
func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured press outlets",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Initialize()
			if err != nil {
				return err
			}

			registry, err := deps.LoadRegistry("")
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"#", "Name", "OID"})
			for i, target := range registry.Targets() {
				t.AppendRow(table.Row{i + 1, target.Name, target.OID})
			}
			t.Render()

			return nil
		},
	}
}
