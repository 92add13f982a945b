package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/chip/atdf"
	"omibyte.io/isrgen/chip/svd"
)

var (
	importOpts = struct {
		input  string
		output string
	}{}

	importCmd = &cobra.Command{
		Use:   "import",
		Short: "Convert ATDF or SVD device files into variant data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fnames, err := filepath.Glob(importOpts.input)
			if err != nil {
				return err
			}
			if len(fnames) == 0 {
				return fmt.Errorf("no input files match %q", importOpts.input)
			}

			var variants []chip.Variant
			for _, fname := range fnames {
				found, err := importFile(fname)
				if err != nil {
					return err
				}
				for _, v := range found {
					fmt.Fprintf(os.Stderr, "CPU:\t\t%s\t(%d lines)\n", v.Name, v.Len())
				}
				variants = append(variants, found...)
			}

			// Reject duplicates and anything the catalog would refuse.
			if _, err = chip.NewCatalog(variants...); err != nil {
				return err
			}

			w := os.Stdout
			if len(importOpts.output) > 0 && importOpts.output != "-" {
				f, err := os.Create(importOpts.output)
				if err != nil {
					return fmt.Errorf("file io error: %w", err)
				}
				defer f.Close()
				w = f
			}
			return chip.MarshalCatalog(w, variants...)
		},
	}
)

func importFile(fname string) ([]chip.Variant, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("file io error: %w", err)
	}
	defer f.Close()

	switch filetype := strings.ToLower(filepath.Ext(fname)); filetype {
	case ".atdf":
		def, err := atdf.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		return atdf.Variants(def)
	case ".svd":
		def, err := svd.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		v, err := svd.Variant(def)
		if err != nil {
			return nil, err
		}
		return []chip.Variant{v}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %s", filetype)
	}
}

func init() {
	importCmd.Flags().StringVarP(&importOpts.input, "in", "i", "", "input file (glob)")
	importCmd.Flags().StringVarP(&importOpts.output, "out", "o", "-", "output catalog file")
	importCmd.MarkFlagRequired("in")
}
