// Package endian provides the byte order used by each version of the generic
// data file format.
//
// The format fixes one byte order per format version. Every multi-byte count,
// offset and numeric cell in a version 1 file is big-endian. Readers must pick
// the engine from the version byte instead of assuming one:
//
//	engine, err := endian.ForVersion(version)
//	if err != nil {
//	    return err // unknown version
//	}
//	count := engine.Uint32(buf[2:6])
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// same value serves both in-place patching (PutUint32) and streaming
// serialization (AppendUint32).
//
// All functions and methods in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"fmt"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CurrentVersion is the newest format version this package knows about.
const CurrentVersion uint8 = 1

// ForVersion returns the byte order mandated by the given format version.
func ForVersion(version uint8) (EndianEngine, error) {
	switch version {
	case 1:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown format version %d", version)
	}
}

// Default returns the engine for CurrentVersion.
func Default() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
