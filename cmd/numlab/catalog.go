package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tb0hdan/numlab/pkg/methods"
)

type methodsOptions struct {
	json bool
}

// NewMethodsCommand lists the solvable methods.
func NewMethodsCommand(_ *RootOptions) *cobra.Command {
	opts := &methodsOptions{}

	cmd := &cobra.Command{
		Use:          "methods",
		Short:        "List available numerical methods",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMethods(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the catalog as JSON")

	return cmd
}

func runMethods(out io.Writer, opts *methodsOptions) error {
	list := make([]methods.Method, 0)
	for _, m := range methods.Catalog() {
		if methods.Solvable(m.Slug) {
			list = append(list, m)
		}
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tPATH\tCATEGORY\tNAME")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Slug, m.Path, m.Category, m.Name)
	}
	return w.Flush()
}
