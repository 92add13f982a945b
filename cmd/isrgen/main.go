package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/config"
)

var (
	env          = config.Environment()
	variantFiles []string

	rootCmd = &cobra.Command{
		Use:   "isrgen",
		Short: "Peripheral interrupt vector table generator",
		Long: `isrgen builds the peripheral interrupt vector table of a chip variant.
Every named line gets a weak handler symbol aliased to a shared default
handler; reserved lines are emitted as zero.`,
		SilenceUsage: true,
	}
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("isrgen: ")

	rootCmd.PersistentFlags().StringSliceVar(&variantFiles, "variants", env.Paths(config.KeyVariants), "additional variant catalog files")

	rootCmd.AddCommand(listCmd, showCmd, generateCmd, importCmd, verifyCmd, overridesCmd, envCmd)
}

// loadCatalog returns the builtin catalog extended by every variant file.
func loadCatalog() (*chip.Catalog, error) {
	catalog := chip.Builtin()
	for _, fname := range variantFiles {
		var err error
		if catalog, _, err = loadCatalogFile(catalog, fname); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// loadCatalogFile resolves a variant file together with base. It also returns
// the names the file declares.
func loadCatalogFile(base *chip.Catalog, fname string) (*chip.Catalog, []string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("file io error: %w", err)
	}
	defer f.Close()

	raw, err := chip.DecodeCatalog(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", fname, err)
	}

	catalog, err := base.Extend(raw...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", fname, err)
	}

	names := make([]string, len(raw))
	for i, v := range raw {
		names[i] = v.Name
	}
	return catalog, names, nil
}
