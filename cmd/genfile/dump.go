package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/extract"
	"github.com/arloliu/genfile/format"
)

func (a *app) newDumpCmd() *cobra.Command {
	var (
		opts   extract.DumpOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump <file> <group> <data set>",
		Short: "Write the rows of a dataset as tab-separated text",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := container.Open(args[0], a.openOptions()...)
			if err != nil {
				return err
			}
			defer f.Close()

			v, err := f.DataSet(args[1], args[2])
			if err != nil {
				return err
			}

			return a.dump(v, opts, output)
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&opts.Start, "start", 0, "first row")
	fl.IntVar(&opts.Count, "count", 0, "number of rows, 0 for all")
	fl.BoolVar(&opts.NoHeader, "no-header", false, "omit the column name line")
	fl.StringVarP(&output, "output", "o", "", "output file instead of standard output")
	fl.String("compress", "", "compress the output: none, zstd, s2 or lz4")
	_ = a.v.BindPFlag("compression", fl.Lookup("compress"))

	return cmd
}

func (a *app) dump(v *container.DataSetView, opts extract.DumpOptions, output string) (err error) {
	var w io.Writer = a.out
	if output != "" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return errs.IO("create", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = errs.IO("close", cerr)
			}
		}()
		w = f
	}

	ct := a.cfg.CompressionType()
	if ct == format.CompressionNone {
		return extract.WriteDataSet(w, v, opts)
	}

	cw, err := extract.NewCompressedWriter(w, ct)
	if err != nil {
		return err
	}
	defer cw.Close()

	if err := extract.WriteDataSet(cw, v, opts); err != nil {
		return err
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("compress dump: %w", err)
	}

	stats := cw.Stats()
	a.logger.Info("compressed dump",
		zap.Stringer("algorithm", stats.Algorithm),
		zap.Int64("original", stats.OriginalSize),
		zap.Int64("compressed", stats.CompressedSize),
		zap.Float64("savings_pct", stats.SpaceSavings()))

	return nil
}
