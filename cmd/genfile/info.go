package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/genfile/dialect"
	"github.com/arloliu/genfile/extract"
)

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := dialect.Default().Open(args[0], a.openOptions()...)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := extract.WriteHeaderReport(a.out, d.File().Header()); err != nil {
				return err
			}

			if cel, ok := d.(*dialect.Intensity); ok {
				layout := "float"
				if _, ok := cel.Layout().(dialect.IntegerIntensities); ok {
					layout = "integer"
				}
				fmt.Fprintf(a.out, "\nIntensity file: %d cells, %s intensities, std dev %t, pixels %t\n",
					cel.NumCells(), layout, cel.HasStdDev(), cel.HasPixels())
			}

			return nil
		},
	}
}
