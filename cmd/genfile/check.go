package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/arloliu/genfile/check"
	"github.com/arloliu/genfile/container"
)

var errFilesDiffer = errors.New("files differ")

func (a *app) newCheckCmd() *cobra.Command {
	var (
		ignored  []string
		maxCells int
	)

	cmd := &cobra.Command{
		Use:   "check <expected> <actual>",
		Short: "Compare two files and list their differences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, err := container.Open(args[0], a.openOptions()...)
			if err != nil {
				return err
			}
			defer expected.Close()

			actual, err := container.Open(args[1], a.openOptions()...)
			if err != nil {
				return err
			}
			defer actual.Close()

			r, err := check.Compare(cmd.Context(), expected, actual,
				check.WithTolerance(a.cfg.Tolerance),
				check.WithConcurrency(a.cfg.Concurrency),
				check.WithMaxCellDifferences(maxCells),
				check.WithIgnoredParameters(ignored...),
				check.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			if _, err := r.WriteTo(a.out); err != nil {
				return err
			}
			if !r.Equal() {
				return errFilesDiffer
			}

			return nil
		},
	}

	fl := cmd.Flags()
	fl.Float64("tolerance", 0, "absolute tolerance for float values")
	fl.Int("concurrency", 4, "data sets compared in parallel")
	fl.StringSliceVar(&ignored, "ignore", nil, "parameter names excluded from the comparison")
	fl.IntVar(&maxCells, "max-cells", 10, "cell differences listed per column")
	_ = a.v.BindPFlag("tolerance", fl.Lookup("tolerance"))
	_ = a.v.BindPFlag("concurrency", fl.Lookup("concurrency"))

	return cmd
}
