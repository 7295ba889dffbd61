// Package dialect interprets generic data files of known file types.
//
// A Registry maps the file type id found in the generic data header to a
// constructor that binds the opened file to a typed dialect. The mapping is
// built explicitly from an ordered list of entries; there is no registration
// at package init time.
//
//	d, err := dialect.Default().Open("scan.cc1")
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	if cel, ok := d.(*dialect.Intensity); ok {
//	    values, err := cel.Intensities(0, cel.NumCells(), nil)
//	    ...
//	}
package dialect
