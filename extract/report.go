package extract

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/section"
)

// WriteHeaderReport writes a human readable listing of h: the file header,
// the generic data header with its parameters and parent tree, then every
// group and dataset with columns, parameters and payload sizes.
func WriteHeaderReport(w io.Writer, h *section.FileHeader) error {
	tw := tabwriter.NewWriter(w, 1, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Magic\t%d\n", h.Magic)
	fmt.Fprintf(tw, "Version\t%d\n", h.Version)
	fmt.Fprintf(tw, "Groups\t%d\n", h.GroupCount())

	var payload int64
	for _, g := range h.Groups {
		for _, ds := range g.DataSets {
			payload += ds.PayloadSize()
		}
	}
	fmt.Fprintf(tw, "Payload\t%s\n", humanize.IBytes(uint64(payload))) //nolint:gosec

	if h.Generic != nil {
		fmt.Fprintln(tw)
		writeGeneric(tw, h.Generic, 0)
		h.Generic.WalkParents(func(p *section.GenericDataHeader, depth int) bool {
			writeGeneric(tw, p, depth)
			return true
		})
	}

	for _, g := range h.Groups {
		fmt.Fprintf(tw, "\nGroup %q\t%d data sets\n", g.Name, g.DataSetCount())
		for _, ds := range g.DataSets {
			writeDataSetHeader(tw, ds)
		}
	}

	if err := tw.Flush(); err != nil {
		return errs.IO("write report", err)
	}

	return nil
}

func writeGeneric(w io.Writer, g *section.GenericDataHeader, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(w, "Generic data header\n")
	} else {
		fmt.Fprintf(w, "%sParent\n", indent)
	}
	fmt.Fprintf(w, "%s  File type\t%s\n", indent, g.FileTypeID)
	fmt.Fprintf(w, "%s  File id\t%s\n", indent, g.FileID)
	fmt.Fprintf(w, "%s  Created\t%s\n", indent, g.CreationTime)
	fmt.Fprintf(w, "%s  Locale\t%s\n", indent, g.Locale)
	writeParameters(w, g.Params, indent+"  ")
}

func writeDataSetHeader(w io.Writer, ds *section.DataSetHeader) {
	fmt.Fprintf(w, "  Data set %q\t%s rows\t%d columns\t%s\n",
		ds.Name, humanize.Comma(int64(ds.Rows)), ds.ColumnCount(), humanize.IBytes(uint64(ds.PayloadSize()))) //nolint:gosec
	for _, c := range ds.Columns {
		fmt.Fprintf(w, "    %s\t%s\t%d\n", c.Name, c.Type, c.Width)
	}
	writeParameters(w, ds.Params, "    ")
}

func writeParameters(w io.Writer, ps section.Parameters, indent string) {
	for _, p := range ps {
		fmt.Fprintf(w, "%s%s\t%v\t%s\n", indent, p.Name, p.Value, p.MIMEType())
	}
}
