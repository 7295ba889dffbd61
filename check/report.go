package check

import (
	"fmt"
	"io"
	"strings"
)

// Difference is one mismatch between the expected and the actual file.
type Difference struct {
	// Path locates the mismatch, e.g. `group "G"/data set "D"/column "x"/row 3`.
	Path     string
	Expected any
	Actual   any
}

func (d Difference) String() string {
	return fmt.Sprintf("%s: expected %v, got %v", d.Path, d.Expected, d.Actual)
}

// ColumnSummary counts the differing cells of one compared column.
type ColumnSummary struct {
	Path  string
	Cells int
}

// Report lists everything Compare found.
type Report struct {
	Differences       []Difference
	Columns           []ColumnSummary
	DataSetsCompared  int
	DataSetsIdentical int
}

// Equal reports whether no difference was found.
func (r *Report) Equal() bool {
	return len(r.Differences) == 0
}

// WriteTo writes one line per difference followed by the per-column counts.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, d := range r.Differences {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	for _, c := range r.Columns {
		fmt.Fprintf(&sb, "%s: %d differing cells\n", c.Path, c.Cells)
	}
	fmt.Fprintf(&sb, "%d data sets compared, %d identical\n", r.DataSetsCompared, r.DataSetsIdentical)

	n, err := io.WriteString(w, sb.String())

	return int64(n), err
}
