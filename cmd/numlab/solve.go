package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tb0hdan/numlab/pkg/methods"
	"github.com/tb0hdan/numlab/pkg/numerics"
)

type solveOptions struct {
	params string
}

// NewSolveCommand runs one method locally and prints the result as JSON.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <method>",
		Short: "Run a numerical method and print the result",
		Long: `Run a numerical method locally and print its result as JSON.

Parameters are given as a JSON object, either inline or read from stdin
when --params is "-":

  numlab solve bisection --params '{"equation":"x^2-4","a":0,"b":5,"epsilon":1e-6}'`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.params, "params", "p", "{}", `method parameters as JSON, or "-" for stdin`)

	return cmd
}

func runSolve(out, errOut io.Writer, in io.Reader, method string, opts *solveOptions) error {
	raw := []byte(opts.params)
	if opts.params == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read parameters: %w", err)
		}
		raw = data
	}

	var params methods.Params
	if err := json.Unmarshal(raw, &params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	result, err := methods.Solve(method, params)
	if err != nil && !errors.Is(err, numerics.ErrMaxIterations) {
		return err
	}
	if err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
