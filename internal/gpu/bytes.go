package gpu

import (
	"encoding/binary"
	"math"
)

// Float32Bytes encodes floats as little-endian bytes.
func Float32Bytes(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// Uint32Bytes encodes uints as little-endian bytes.
func Uint32Bytes(v []uint32) []byte {
	out := make([]byte, len(v)*4)
	for i, u := range v {
		binary.LittleEndian.PutUint32(out[i*4:], u)
	}
	return out
}

// Uint16Bytes encodes 16-bit values as little-endian bytes.
func Uint16Bytes(v []uint16) []byte {
	out := make([]byte, len(v)*2)
	for i, u := range v {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}
