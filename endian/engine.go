// Package endian resolves the byte order of a param file.
//
// A param file records its byte order in a single marker byte of the header:
// 0x00 for little-endian files (PC builds) and 0xFF for big-endian files
// (older console builds). Every multi-byte header, descriptor and lookup field
// is read through the EndianEngine selected from that marker.
//
// Typed row access reinterprets row bytes in place, which is only meaningful
// when the file's byte order equals the host's; CompareNativeEndian reports that.
//
// All functions in this package are safe for concurrent use. The returned
// engines are the immutable binary.LittleEndian and binary.BigEndian values.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Marker byte values stored in the param header.
const (
	MarkerLittle byte = 0x00
	MarkerBig    byte = 0xFF
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness returns the host byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromMarker returns the engine selected by a header endian marker.
// ok is false for any marker other than MarkerLittle or MarkerBig.
func FromMarker(marker byte) (engine EndianEngine, ok bool) {
	switch marker {
	case MarkerLittle:
		return binary.LittleEndian, true
	case MarkerBig:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// Marker returns the header marker byte for engine.
func Marker(engine EndianEngine) byte {
	if engine == binary.BigEndian {
		return MarkerBig
	}

	return MarkerLittle
}
