package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/extract"
)

func (a *app) newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <dump file>",
		Short: "Print a dump written by dump, decompressing it when needed",
		Long: `cat detects zstd, s2 and lz4 streams from their leading bytes and writes the
decompressed text. Uncompressed input is copied unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.cat(args[0])
		},
	}
}

func (a *app) cat(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
		}

		return errs.IO("open", err)
	}
	defer f.Close()

	r, ct, err := extract.NewDecompressedReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	n, err := io.Copy(a.out, r)
	if err != nil {
		return errs.IO("decompress", err)
	}

	a.logger.Debug("dump printed", zap.Stringer("algorithm", ct), zap.Int64("bytes", n))

	return nil
}
