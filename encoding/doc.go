// Package encoding implements the cell, column and parameter codecs of the
// generic data file format.
//
// # Cells
//
// Every column declares a type tag and a byte width. Numeric cells occupy
// exactly their natural size. Text cells are fixed width: an i32 character
// count followed by the characters and zero fill up to the declared width.
// 8-bit text stores one byte per character, 16-bit text stores UTF-16BE code
// units.
//
//	buf, err := encoding.Encode(nil, "row-1", format.TypeASCII, encoding.TextWidth(format.TypeASCII, 16), engine)
//	v, err := encoding.Decode(buf, format.TypeASCII, 20, engine)
//
// Encode and Decode are symmetric: decoding an encoded value yields the value,
// and encoding a decoded well-formed cell yields the same bytes.
//
// # Columns
//
// AppendColumn and DecodeColumn move a whole contiguous row range with one
// type dispatch per call. Numeric columns are decoded into caller-owned slices
// without per-row allocation:
//
//	dst := make([]float32, 0, rows)
//	dst, err := encoding.DecodeColumn(payload, format.TypeFloat32, 4, rows, engine, dst)
//
// # Header primitives
//
// string8 (i32 byte length + bytes), string16 (i32 code-unit length + UTF-16BE)
// and blob (i32 byte length + bytes) are the building blocks of every header.
// UTF-16 conversion is done with golang.org/x/text/encoding/unicode.
//
// # Parameters
//
// Parameter values are blobs tagged with a MIME type. Numeric values are a
// 32-bit word at the start of a 16-byte blob; text values may reserve a fixed
// width so they can later be updated in place.
package encoding
