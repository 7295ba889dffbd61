package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/internal/pool"
	"github.com/arloliu/genfile/section"
)

// sampleHeader builds a two-group header exercising every column type, an
// empty group and a zero-row dataset.
func sampleHeader() (*section.FileHeader, Payloads) {
	gen := section.NewGenericDataHeader("affymetrix-calvin-intensity")
	gen.AddParameter(section.NewTextParameter("affymetrix-scanner", "S-100", 0))
	gen.AddParameter(section.NewASCIIParameter("affymetrix-barcode", "B-7", 16))
	px, _ := section.NewParameter("affymetrix-pixel-size", float32(0.75))
	gen.AddParameter(px)

	parent := section.NewGenericDataHeader("affymetrix-calvin-scan-acquisition")
	parent.AddParameter(section.NewTextParameter("affymetrix-operator", "ana", 0))
	gen.AddParent(parent)

	h := section.NewFileHeader(gen)

	g := h.AddDataGroup("Default Group")
	numeric := section.NewDataSetHeader("Numeric", 3,
		section.NewColumnInfo("i8", format.TypeInt8, 0),
		section.NewColumnInfo("u8", format.TypeUint8, 0),
		section.NewColumnInfo("i16", format.TypeInt16, 0),
		section.NewColumnInfo("u16", format.TypeUint16, 0),
		section.NewColumnInfo("i32", format.TypeInt32, 0),
		section.NewColumnInfo("u32", format.TypeUint32, 0),
		section.NewColumnInfo("f32", format.TypeFloat32, 0),
	)
	numeric.AddParameter(section.NewTextParameter("units", "counts", 8))
	g.AddDataSet(numeric)

	text := section.NewDataSetHeader("Text", 2,
		section.NewColumnInfo("ascii", format.TypeASCII, 8),
		section.NewColumnInfo("unicode", format.TypeUnicode, 4),
	)
	g.AddDataSet(text)

	g.AddDataSet(section.NewDataSetHeader("Empty", 0, section.NewColumnInfo("x", format.TypeInt32, 0)))

	h.AddDataGroup("Nothing Here")

	g3 := h.AddDataGroup("Outliers")
	g3.AddDataSet(section.NewDataSetHeader("Indices", 2, section.NewColumnInfo("index", format.TypeUint32, 0)))

	payloads := Payloads{
		{
			{
				[]int8{-1, 0, 1},
				[]uint8{0, 128, 255},
				[]int16{-300, 0, 300},
				[]uint16{1, 2, 65535},
				[]int32{-70000, 0, 70000},
				[]uint32{1, 2, 4294967295},
				[]float32{-1.5, 0, 2.25},
			},
			{
				[]string{"row-1", ""},
				[]string{"αβγδ", "x"},
			},
		},
		nil,
		{
			{[]uint32{10, 20}},
		},
	}

	return h, payloads
}

func writeBytes(t *testing.T, h *section.FileHeader, payloads Payloads) []byte {
	t.Helper()

	bb := pool.NewByteBuffer(0)
	_, err := Write(bb, h, payloads)
	require.NoError(t, err)

	return bb.Bytes()
}

func writeFile(t *testing.T, h *section.FileHeader, payloads Payloads) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.cc1")
	_, err := Create(path, h, payloads, WithSync(false))
	require.NoError(t, err)

	return path
}

// scenarioFile writes group "G" with dataset "D" holding int32 column "x" = rows.
func scenarioFile(t *testing.T, rows ...int32) string {
	t.Helper()

	h := section.NewFileHeader(section.NewGenericDataHeader("test"))
	g := h.AddDataGroup("G")
	g.AddDataSet(section.NewDataSetHeader("D", len(rows), section.NewColumnInfo("x", format.TypeInt32, 0)))

	return writeFile(t, h, Payloads{{{rows}}})
}
