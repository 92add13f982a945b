package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known chip variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "VARIANT\tSERIES\tVERSION\tLINES\tRESERVED")
		for _, v := range catalog.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", v.Name, v.Series, v.Version, v.Len(), v.Len()-len(v.Named()))
		}
		return w.Flush()
	},
}
