// Package config reads isrgen settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	KeyVariants = "ISRGEN_VARIANTS"
	KeyOut      = "ISRGEN_OUT"
	KeyFormats  = "ISRGEN_FORMATS"
	KeyStub     = "ISRGEN_DEFAULT_HANDLER"
)

type Env map[string]string

// Environment returns the settings, falling back to defaults for unset
// variables.
func Environment() Env {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return map[string]string{
		KeyVariants: getenv(KeyVariants, ""),
		KeyOut:      getenv(KeyOut, filepath.Join(cwd, "build")),
		KeyFormats:  getenv(KeyFormats, "asm,h,go"),
		KeyStub:     getenv(KeyStub, ""),
	}
}

func (e Env) Print(w io.Writer) {
	for _, k := range e.keys() {
		fmt.Fprintf(w, "set %s=%s\n", k, e[k])
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

// Paths splits a list-valued setting on the OS path list separator.
func (e Env) Paths(key string) []string {
	var paths []string
	for _, p := range filepath.SplitList(e.Value(key)) {
		if p = strings.TrimSpace(p); len(p) > 0 {
			paths = append(paths, p)
		}
	}
	return paths
}

func (e Env) List() []string {
	var result []string
	for _, key := range e.keys() {
		result = append(result, fmt.Sprintf("%s=%s", key, e[key]))
	}
	return result
}

func (e Env) keys() []string {
	keys := maps.Keys(e)
	slices.Sort(keys)
	return keys
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
