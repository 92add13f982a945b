package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/isr/directive"
	"omibyte.io/isrgen/vector"
)

var (
	overridesOpts = struct {
		dir  string
		tags []string
	}{}

	overridesCmd = &cobra.Command{
		Use:   "overrides <variant> [packages]",
		Short: "Show which handlers Go packages override",
		Long:  "Scan Go packages for //sigo:interrupt and //go:linkname handler bindings and print the resulting vector table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			v, err := catalog.Find(args[0])
			if err != nil {
				return err
			}

			patterns := args[1:]
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}

			directives, err := directive.Load(cmd.Context(), overridesOpts.dir, overridesOpts.tags, patterns...)
			if err != nil {
				return err
			}

			overrides, err := directive.Overrides(v, directives)
			if err != nil {
				return err
			}

			table, err := vector.Build(v, overrides)
			if err != nil {
				return err
			}

			for _, d := range directives {
				fmt.Println(d)
			}
			fmt.Println()
			return printTable(table)
		},
	}
)

func init() {
	overridesCmd.Flags().StringVarP(&overridesOpts.dir, "dir", "C", "", "directory to load packages from")
	overridesCmd.Flags().StringSliceVarP(&overridesOpts.tags, "tags", "t", nil, "build tags")
}
