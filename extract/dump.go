package extract

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/errs"
)

const dumpChunkRows = 1024

// DumpOptions selects the rows written by WriteDataSet.
type DumpOptions struct {
	// Start is the first row written.
	Start int
	// Count limits the number of rows; 0 or less writes through the last row.
	Count int
	// NoHeader suppresses the line of column names.
	NoHeader bool
}

var textEscaper = strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n", "\r", "\\r")

// WriteDataSet writes rows of v as tab-separated text, one line per row,
// preceded by a line of column names. Floats use the shortest representation
// that round-trips; tabs and line breaks inside text cells are escaped.
func WriteDataSet(w io.Writer, v *container.DataSetView, opts DumpOptions) error {
	if opts.Start < 0 {
		return fmt.Errorf("%w: start row %d", errs.ErrIndexOutOfBounds, opts.Start)
	}

	end := v.Rows()
	if opts.Count > 0 {
		end = min(end, opts.Start+opts.Count)
	}

	bw := bufio.NewWriter(w)
	cols := v.Columns()

	if !opts.NoHeader {
		for i, c := range cols {
			if i > 0 {
				_ = bw.WriteByte('\t')
			}
			_, _ = bw.WriteString(c.Name)
		}
		_ = bw.WriteByte('\n')
	}

	values := make([]any, len(cols))
	var line []byte
	for start := opts.Start; start < end; start += dumpChunkRows {
		n := min(dumpChunkRows, end-start)
		for ci := range cols {
			var err error
			if values[ci], err = v.GetRange(ci, start, n); err != nil {
				return err
			}
		}

		for r := range n {
			line = line[:0]
			for ci := range cols {
				if ci > 0 {
					line = append(line, '\t')
				}
				line = appendCell(line, values[ci], r)
			}
			line = append(line, '\n')
			if _, err := bw.Write(line); err != nil {
				return errs.IO("write dump", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return errs.IO("write dump", err)
	}

	return nil
}

func appendCell(dst []byte, values any, i int) []byte {
	switch s := values.(type) {
	case []int8:
		return strconv.AppendInt(dst, int64(s[i]), 10)
	case []uint8:
		return strconv.AppendUint(dst, uint64(s[i]), 10)
	case []int16:
		return strconv.AppendInt(dst, int64(s[i]), 10)
	case []uint16:
		return strconv.AppendUint(dst, uint64(s[i]), 10)
	case []int32:
		return strconv.AppendInt(dst, int64(s[i]), 10)
	case []uint32:
		return strconv.AppendUint(dst, uint64(s[i]), 10)
	case []float32:
		return strconv.AppendFloat(dst, float64(s[i]), 'g', -1, 32)
	case []string:
		return append(dst, textEscaper.Replace(s[i])...)
	default:
		return dst
	}
}
