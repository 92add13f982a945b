package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/config"
	"omibyte.io/isrgen/isr"
)

var (
	generateOpts = struct {
		variants       []string
		output         string
		formats        string
		defaultHandler string
		pkg            string
	}{}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate vector table sources for chip variants",
		Long:  "Generate the peripheral vector table, weak handler bindings and interrupt constants for one or more chip variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			formats, err := isr.ParseFormats(generateOpts.formats)
			if err != nil {
				return err
			}

			var variants []chip.Variant
			if len(generateOpts.variants) == 0 {
				variants = catalog.All()
			} else {
				for _, name := range generateOpts.variants {
					v, err := catalog.Find(name)
					if err != nil {
						return err
					}
					variants = append(variants, v)
				}
			}

			if len(generateOpts.pkg) > 0 && len(variants) > 1 {
				return fmt.Errorf("--package requires a single --variant")
			}

			for _, v := range variants {
				fmt.Printf("Variant:\t%s\n", v.Name)
				fmt.Printf("Lines:\t\t%d (%d reserved)\n", v.Len(), v.Len()-len(v.Named()))

				gen := isr.NewGenerator(v, isr.Options{
					Formats:        formats,
					DefaultHandler: generateOpts.defaultHandler,
					Package:        generateOpts.pkg,
				})
				if err = gen.Generate(generateOpts.output); err != nil {
					return fmt.Errorf("generator error: %w", err)
				}
				fmt.Printf("Output:\t\t%s\n", isr.OutputDir(generateOpts.output, v))
			}

			fmt.Println("Done.")
			return nil
		},
	}
)

func init() {
	generateCmd.Flags().StringSliceVar(&generateOpts.variants, "variant", nil, "chip variants to generate (default all)")
	generateCmd.Flags().StringVarP(&generateOpts.output, "out", "o", env.Value(config.KeyOut), "output directory")
	generateCmd.Flags().StringVarP(&generateOpts.formats, "formats", "f", env.Value(config.KeyFormats), "output formats (=asm,h,go)")
	generateCmd.Flags().StringVar(&generateOpts.defaultHandler, "default-handler", env.Value(config.KeyStub), "symbol unbound handlers alias")
	generateCmd.Flags().StringVar(&generateOpts.pkg, "package", "", "Go package name (default the variant name)")
}
