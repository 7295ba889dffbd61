package format

type (
	ColumnType      uint8
	CompressionType uint8
)

// Column type tags as stored in the dataset column table.
const (
	TypeInt8    ColumnType = 0 // TypeInt8 is a signed 8-bit integer.
	TypeUint8   ColumnType = 1 // TypeUint8 is an unsigned 8-bit integer.
	TypeInt16   ColumnType = 2 // TypeInt16 is a signed 16-bit integer.
	TypeUint16  ColumnType = 3 // TypeUint16 is an unsigned 16-bit integer.
	TypeInt32   ColumnType = 4 // TypeInt32 is a signed 32-bit integer.
	TypeUint32  ColumnType = 5 // TypeUint32 is an unsigned 32-bit integer.
	TypeFloat32 ColumnType = 6 // TypeFloat32 is an IEEE-754 single precision float.
	TypeASCII   ColumnType = 7 // TypeASCII is fixed-width 8-bit character text.
	TypeUnicode ColumnType = 8 // TypeUnicode is fixed-width 16-bit (UTF-16) character text.
)

// Compression types for extracted text output. The container itself is never compressed.
const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Parameter MIME types, one per column type tag.
const (
	MIMEInt8    = "text/x-calvin-integer-8"
	MIMEUint8   = "text/x-calvin-unsigned-integer-8"
	MIMEInt16   = "text/x-calvin-integer-16"
	MIMEUint16  = "text/x-calvin-unsigned-integer-16"
	MIMEInt32   = "text/x-calvin-integer-32"
	MIMEUint32  = "text/x-calvin-unsigned-integer-32"
	MIMEFloat32 = "text/x-calvin-float"
	MIMEUnicode = "text/plain"
	MIMEASCII   = "text/ascii"
)

var mimeTypes = [...]string{
	TypeInt8:    MIMEInt8,
	TypeUint8:   MIMEUint8,
	TypeInt16:   MIMEInt16,
	TypeUint16:  MIMEUint16,
	TypeInt32:   MIMEInt32,
	TypeUint32:  MIMEUint32,
	TypeFloat32: MIMEFloat32,
	TypeUnicode: MIMEUnicode,
	TypeASCII:   MIMEASCII,
}

// Valid reports whether t is one of the closed set of column type tags.
func (t ColumnType) Valid() bool {
	return t <= TypeUnicode
}

// IsText reports whether t is one of the two text tags.
func (t ColumnType) IsText() bool {
	return t == TypeASCII || t == TypeUnicode
}

// FixedSize returns the on-disk size of a numeric value, or 0 for text types.
func (t ColumnType) FixedSize() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	default:
		return 0
	}
}

// MIMEType returns the parameter MIME type for t, or "" for unknown tags.
func (t ColumnType) MIMEType() string {
	if !t.Valid() {
		return ""
	}

	return mimeTypes[t]
}

// ParseMIMEType maps a parameter MIME type back to its column type tag.
func ParseMIMEType(mime string) (ColumnType, bool) {
	for i, m := range mimeTypes {
		if m == mime {
			return ColumnType(i), true //nolint: gosec
		}
	}

	return 0, false
}

func (t ColumnType) String() string {
	switch t {
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeUint16:
		return "uint16"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeFloat32:
		return "float32"
	case TypeASCII:
		return "ascii"
	case TypeUnicode:
		return "unicode"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-sensitive lower-case compression name
// ("none", "zstd", "s2", "lz4").
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
