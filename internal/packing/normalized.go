package packing

import "math"

// Unpack functions map the full range of an integer type onto [0, 1] for
// unsigned types and [-1, 1] for signed ones. The most negative signed value
// has no positive counterpart and clamps to -1.

func UnpackUint8(v uint8) float32   { return float32(v) / math.MaxUint8 }
func UnpackUint16(v uint16) float32 { return float32(v) / math.MaxUint16 }

func UnpackInt8(v int8) float32 {
	return max(float32(v)/math.MaxInt8, -1)
}

func UnpackInt16(v int16) float32 {
	return max(float32(v)/math.MaxInt16, -1)
}

// Pack functions are the inverse of the Unpack family. Input is clamped to
// the representable range and rounded to the nearest integer.

func PackUint8(f float32) uint8 {
	return uint8(math.Round(float64(clamp(f, 0, 1)) * math.MaxUint8))
}

func PackUint16(f float32) uint16 {
	return uint16(math.Round(float64(clamp(f, 0, 1)) * math.MaxUint16))
}

func PackInt8(f float32) int8 {
	return int8(math.Round(float64(clamp(f, -1, 1)) * math.MaxInt8))
}

func PackInt16(f float32) int16 {
	return int16(math.Round(float64(clamp(f, -1, 1)) * math.MaxInt16))
}

func clamp(f, lo, hi float32) float32 {
	return min(max(f, lo), hi)
}
