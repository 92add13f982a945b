package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/chip"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <catalog.yaml>...",
	Short: "Validate variant catalog files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fname := range args {
			catalog, names, err := loadCatalogFile(chip.Builtin(), fname)
			if err != nil {
				return err
			}
			for _, name := range names {
				v, err := catalog.Find(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s ok (%d lines)\n", fname, v.Name, v.Len())
			}
		}
		return nil
	},
}
