package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/vector"
)

var showCmd = &cobra.Command{
	Use:   "show <variant>",
	Short: "Print the peripheral vector table of a variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		v, err := catalog.Find(args[0])
		if err != nil {
			return err
		}

		table, err := vector.Build(v, nil)
		if err != nil {
			return err
		}

		fmt.Printf("Variant:\t%s\n", v.Name)
		fmt.Printf("Version:\t%s\n", v.Version)
		fmt.Printf("Reference:\t%s\n", v.Reference)
		fmt.Println()
		return printTable(table)
	},
}

func printTable(table *vector.Table) error {
	v := table.Variant()
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tHANDLER\tBINDING\tCAPTION")
	for _, e := range table.Entries() {
		line := e.Line()
		switch {
		case e.Reserved():
			fmt.Fprintf(w, "%d\t0\treserved\t\n", line.Index)
		case e.Overridden():
			fmt.Fprintf(w, "%d\t%s\tapplication\t%s\n", line.Index, e.Symbol(), v.Caption(line.Index))
		default:
			fmt.Fprintf(w, "%d\t%s\tdefault\t%s\n", line.Index, e.Symbol(), v.Caption(line.Index))
		}
	}
	return w.Flush()
}
