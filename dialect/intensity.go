package dialect

import (
	"fmt"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

// Names used by intensity files.
const (
	IntensityFileTypeID = "affymetrix-calvin-intensity"

	IntensityGroup   = "Default Group"
	IntensityDataSet = "Intensity"
	StdDevDataSet    = "StdDev"
	PixelDataSet     = "Pixel"
	OutlierDataSet   = "Outlier"
	MaskDataSet      = "Mask"

	RowsParameter = "affymetrix-cel-rows"
	ColsParameter = "affymetrix-cel-cols"
)

// IntensityLayout is the storage of the intensity column, chosen once when
// the file is bound. It is one of FloatIntensities or IntegerIntensities.
type IntensityLayout interface {
	intensityLayout()
	// Len returns the number of cells.
	Len() int
}

// FloatIntensities stores intensities as float32.
type FloatIntensities struct {
	view *container.DataSetView
}

// IntegerIntensities stores intensities as uint16, as written by older scanners.
type IntegerIntensities struct {
	view *container.DataSetView
}

func (FloatIntensities) intensityLayout()   {}
func (IntegerIntensities) intensityLayout() {}

func (l FloatIntensities) Len() int   { return l.view.Rows() }
func (l IntegerIntensities) Len() int { return l.view.Rows() }

// Coord is a cell position on the array.
type Coord struct {
	X, Y int16
}

// Intensity reads cell intensity files: one intensity per cell plus the
// optional standard deviation, pixel count, outlier and mask datasets.
type Intensity struct {
	file     *container.File
	layout   IntensityLayout
	stdDev   *container.DataSetView
	pixels   *container.DataSetView
	outliers *container.DataSetView
	masks    *container.DataSetView
}

var _ Dialect = (*Intensity)(nil)

// NewIntensity binds f as an intensity file. The "Intensity" dataset of
// "Default Group" is required and its first column must be float32 or uint16.
func NewIntensity(f *container.File) (Dialect, error) {
	v, err := f.DataSet(IntensityGroup, IntensityDataSet)
	if err != nil {
		return nil, err
	}

	d := &Intensity{file: f}

	ct, err := v.ColumnType(0)
	if err != nil {
		return nil, err
	}
	switch ct {
	case format.TypeFloat32:
		d.layout = FloatIntensities{view: v}
	case format.TypeUint16:
		d.layout = IntegerIntensities{view: v}
	default:
		return nil, fmt.Errorf("%w: intensity column is %s", errs.ErrUnsupportedType, ct)
	}

	for name, dst := range map[string]**container.DataSetView{
		StdDevDataSet:  &d.stdDev,
		PixelDataSet:   &d.pixels,
		OutlierDataSet: &d.outliers,
		MaskDataSet:    &d.masks,
	} {
		if *dst, err = optional(f, name); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// optional opens a dataset that may be absent; absence yields a nil view.
func optional(f *container.File, name string) (*container.DataSetView, error) {
	v, err := f.DataSet(IntensityGroup, name)
	if errs.IsAbsent(err) {
		return nil, nil
	}

	return v, err
}

func (d *Intensity) FileTypeID() string {
	return d.file.Header().Generic.FileTypeID
}

func (d *Intensity) File() *container.File {
	return d.file
}

func (d *Intensity) Close() error {
	return d.file.Close()
}

// Layout returns the storage of the intensity column.
func (d *Intensity) Layout() IntensityLayout {
	return d.layout
}

// NumCells returns the number of cells.
func (d *Intensity) NumCells() int {
	return d.layout.Len()
}

// Intensities appends up to count intensities starting at cell start to dst.
// Integer intensities are converted to float32.
func (d *Intensity) Intensities(start, count int, dst []float32) ([]float32, error) {
	switch l := d.layout.(type) {
	case FloatIntensities:
		return container.Range(l.view, 0, start, count, dst)
	case IntegerIntensities:
		raw, err := container.Range[uint16](l.view, 0, start, count, nil)
		if err != nil {
			return dst, err
		}
		for _, x := range raw {
			dst = append(dst, float32(x))
		}

		return dst, nil
	default:
		return dst, fmt.Errorf("%w: intensity layout %T", errs.ErrUnsupportedType, l)
	}
}

// HasStdDev reports whether the file carries standard deviations.
func (d *Intensity) HasStdDev() bool {
	return d.stdDev != nil
}

// StdDev appends up to count standard deviations starting at cell start.
// It returns ErrDataSetNotFound when the file has none.
func (d *Intensity) StdDev(start, count int, dst []float32) ([]float32, error) {
	if d.stdDev == nil {
		return dst, fmt.Errorf("%w: %s", errs.ErrDataSetNotFound, StdDevDataSet)
	}

	return container.Range(d.stdDev, 0, start, count, dst)
}

// HasPixels reports whether the file carries pixel counts.
func (d *Intensity) HasPixels() bool {
	return d.pixels != nil
}

// Pixels appends up to count pixel counts starting at cell start.
// It returns ErrDataSetNotFound when the file has none.
func (d *Intensity) Pixels(start, count int, dst []int16) ([]int16, error) {
	if d.pixels == nil {
		return dst, fmt.Errorf("%w: %s", errs.ErrDataSetNotFound, PixelDataSet)
	}

	return container.Range(d.pixels, 0, start, count, dst)
}

// Outliers returns the cells flagged as outliers; none when the dataset is absent.
func (d *Intensity) Outliers() ([]Coord, error) {
	return coords(d.outliers)
}

// Masked returns the masked cells; none when the dataset is absent.
func (d *Intensity) Masked() ([]Coord, error) {
	return coords(d.masks)
}

func coords(v *container.DataSetView) ([]Coord, error) {
	if v == nil {
		return nil, nil
	}

	xs, err := container.Range[int16](v, 0, 0, v.Rows(), nil)
	if err != nil {
		return nil, err
	}
	ys, err := container.Range[int16](v, 1, 0, v.Rows(), nil)
	if err != nil {
		return nil, err
	}

	out := make([]Coord, len(xs))
	for i := range xs {
		out[i] = Coord{X: xs[i], Y: ys[i]}
	}

	return out, nil
}

// Dimensions returns the array rows and columns from the file parameters.
func (d *Intensity) Dimensions() (rows, cols int, err error) {
	g := d.file.Header().Generic
	r, ok := g.FindParameter(RowsParameter)
	c, ok2 := g.FindParameter(ColsParameter)
	if !ok || !ok2 {
		return 0, 0, fmt.Errorf("%w: array dimensions", errs.ErrParameterNotFound)
	}

	ri, rok := r.Value.(int32)
	ci, cok := c.Value.(int32)
	if !rok || !cok {
		return 0, 0, fmt.Errorf("%w: array dimensions are %T x %T", errs.ErrUnsupportedType, r.Value, c.Value)
	}

	return int(ri), int(ci), nil
}

// IndexToXY converts a cell index to its array position.
func (d *Intensity) IndexToXY(index int) (Coord, error) {
	_, cols, err := d.Dimensions()
	if err != nil {
		return Coord{}, err
	}
	if cols <= 0 {
		return Coord{}, fmt.Errorf("%w: array has %d columns", errs.ErrCorrupt, cols)
	}

	return Coord{X: int16(index % cols), Y: int16(index / cols)}, nil //nolint:gosec
}
