// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package archive

import (
	"encoding/binary"
	"math"
)

// sizeOf returns the wire size in bytes of a Numeric value, matching
// sizeof(T) in the source's write_pod/read_pod.
func sizeOf[T Numeric](zero T) int {
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, int, uint, float64:
		return 8
	default:
		return 8
	}
}

// encodeLE returns the little-endian byte encoding of v.
func encodeLE[T Numeric](v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return []byte{byte(x)}
	case uint8:
		return []byte{x}
	case int16:
		p := make([]byte, 2)
		binary.LittleEndian.PutUint16(p, uint16(x))
		return p
	case uint16:
		p := make([]byte, 2)
		binary.LittleEndian.PutUint16(p, x)
		return p
	case int32:
		p := make([]byte, 4)
		binary.LittleEndian.PutUint32(p, uint32(x))
		return p
	case uint32:
		p := make([]byte, 4)
		binary.LittleEndian.PutUint32(p, x)
		return p
	case float32:
		p := make([]byte, 4)
		binary.LittleEndian.PutUint32(p, float32bits(x))
		return p
	case int64:
		p := make([]byte, 8)
		binary.LittleEndian.PutUint64(p, uint64(x))
		return p
	case uint64:
		p := make([]byte, 8)
		binary.LittleEndian.PutUint64(p, x)
		return p
	case int:
		p := make([]byte, 8)
		binary.LittleEndian.PutUint64(p, uint64(int64(x)))
		return p
	case uint:
		p := make([]byte, 8)
		binary.LittleEndian.PutUint64(p, uint64(x))
		return p
	case float64:
		p := make([]byte, 8)
		binary.LittleEndian.PutUint64(p, float64bits(x))
		return p
	default:
		p := make([]byte, 8)
		return p
	}
}

// decodeLE decodes a little-endian encoded Numeric value from p.
func decodeLE[T Numeric](p []byte) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(p[0])).(T)
	case uint8:
		return any(p[0]).(T)
	case int16:
		return any(int16(binary.LittleEndian.Uint16(p))).(T)
	case uint16:
		return any(binary.LittleEndian.Uint16(p)).(T)
	case int32:
		return any(int32(binary.LittleEndian.Uint32(p))).(T)
	case uint32:
		return any(binary.LittleEndian.Uint32(p)).(T)
	case float32:
		return any(float32frombits(binary.LittleEndian.Uint32(p))).(T)
	case int64:
		return any(int64(binary.LittleEndian.Uint64(p))).(T)
	case uint64:
		return any(binary.LittleEndian.Uint64(p)).(T)
	case int:
		return any(int(int64(binary.LittleEndian.Uint64(p)))).(T)
	case uint:
		return any(uint(binary.LittleEndian.Uint64(p))).(T)
	case float64:
		return any(float64frombits(binary.LittleEndian.Uint64(p))).(T)
	default:
		return zero
	}
}

func castInt[T Numeric](n int64) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(n)).(T)
	case int16:
		return any(int16(n)).(T)
	case int32:
		return any(int32(n)).(T)
	case int64:
		return any(n).(T)
	case int:
		return any(int(n)).(T)
	case uint8:
		return any(uint8(n)).(T)
	case uint16:
		return any(uint16(n)).(T)
	case uint32:
		return any(uint32(n)).(T)
	case uint64:
		return any(uint64(n)).(T)
	case uint:
		return any(uint(n)).(T)
	default:
		return zero
	}
}

func castUint[T Numeric](n uint64) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return any(uint8(n)).(T)
	case uint16:
		return any(uint16(n)).(T)
	case uint32:
		return any(uint32(n)).(T)
	case uint64:
		return any(n).(T)
	case uint:
		return any(uint(n)).(T)
	case int8:
		return any(int8(n)).(T)
	case int16:
		return any(int16(n)).(T)
	case int32:
		return any(int32(n)).(T)
	case int64:
		return any(int64(n)).(T)
	case int:
		return any(int(n)).(T)
	default:
		return zero
	}
}

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float64bits(f float64) uint64     { return math.Float64bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
