// Command handlergen writes the unit table for a handler directory.
//
//	go run ./cmd/handlergen --dir internal/commands --out units_gen.go --pkg commands
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"tg-seed-bot/internal/loader"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"
)

var unitsTemplate = template.Must(template.New("units").Parse(`// Code generated by handlergen. DO NOT EDIT.

package {{.Package}}

import "tg-seed-bot/internal/loader"

// Units lists every handler unit in this directory.
var Units = []loader.Unit{
{{- range .Units}}
	{Stem: {{printf "%q" .Stem}}, Init: {{.Func}}},
{{- end}}
}
`))

type unit struct {
	Stem string
	Func string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "handlergen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir, out, pkg string

	cmd := &cobra.Command{
		Use:           "handlergen",
		Short:         "Write the unit table for a handler directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dir, out, pkg)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "handler directory")
	cmd.Flags().StringVar(&out, "out", "units_gen.go", "output file, relative to --dir")
	cmd.Flags().StringVar(&pkg, "pkg", "commands", "package name of the generated file")
	return cmd
}

func run(dir, out, pkg string) error {
	src, err := generate(dir, pkg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, out), src, 0644)
}

// generate renders the unit table for dir
func generate(dir, pkg string) ([]byte, error) {
	stems, err := loader.Scan(dir)
	if err != nil {
		return nil, err
	}
	if err := loader.CheckCollisions(stems); err != nil {
		return nil, err
	}

	units := make([]unit, len(stems))
	for i, stem := range stems {
		units[i] = unit{Stem: stem, Func: "Init" + strcase.ToCamel(stem)}
	}

	var buf bytes.Buffer
	if err := unitsTemplate.Execute(&buf, map[string]interface{}{
		"Package": pkg,
		"Units":   units,
	}); err != nil {
		return nil, fmt.Errorf("failed to render unit table: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format unit table: %w", err)
	}
	return src, nil
}
