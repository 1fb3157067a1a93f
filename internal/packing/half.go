// Package packing converts between float32 and the packed numeric encodings
// used by vertex data: IEEE 754 half floats and normalized integers.
package packing

import "math"

// halfTable maps every possible half-float bit pattern to float32.
var halfTable = func() [1 << 16]float32 {
	var tbl [1 << 16]float32
	for i := range tbl {
		tbl[i] = halfToFloat(uint16(i))
	}
	return tbl
}()

// HalfToFloat expands a half-float bit pattern. Subnormals, infinities and
// NaN payloads are preserved.
func HalfToFloat(h uint16) float32 {
	return halfTable[h]
}

// HalfToFloatSlice expands src into dst, which must be at least as long.
func HalfToFloatSlice(src []uint16, dst []float32) {
	for i, v := range src {
		dst[i] = halfTable[v]
	}
}

func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1F
	frac := uint32(h & 0x3FF)
	var f uint32
	switch exp {
	case 0:
		if frac == 0 {
			f = sign << 31
		} else {
			e := uint32(127 - 15 + 1)
			for (frac & 0x400) == 0 {
				frac <<= 1
				e--
			}
			frac &= 0x3FF
			f = (sign << 31) | (e << 23) | (frac << 13)
		}
	case 0x1F:
		f = (sign << 31) | 0x7F800000 | (frac << 13)
	default:
		e := exp + (127 - 15)
		f = (sign << 31) | (e << 23) | (frac << 13)
	}
	return math.Float32frombits(f)
}

// FloatToHalf packs f into a half float, rounding to nearest even.
// Values beyond the half range become infinity.
func FloatToHalf(f float32) uint16 {
	u := math.Float32bits(f)
	sign := (u >> 31) & 0x1
	exp := int((u >> 23) & 0xFF)
	frac := u & 0x7FFFFF

	if exp == 0xFF {
		if frac != 0 {
			// keep NaN a NaN even when the payload is in the dropped bits
			return uint16((sign << 15) | 0x7C00 | (frac >> 13) | 1)
		}
		return uint16((sign << 15) | 0x7C00)
	}

	e := exp - 127
	if e > 15 {
		return uint16((sign << 15) | 0x7C00)
	}
	if e < -14 {
		if e < -25 {
			return uint16(sign << 15)
		}
		frac |= 0x800000
		shift := uint32(-1 - e)
		rnd := uint32(1)<<(shift-1) - 1 + ((frac >> shift) & 1)
		return uint16((sign << 15) | ((frac + rnd) >> shift))
	}

	exp16 := uint32(e + 15)
	rnd := uint32(0xFFF + ((frac >> 13) & 1))
	frac = frac + rnd
	if (frac & 0x800000) != 0 {
		exp16++
		frac = 0
		if exp16 >= 0x1F {
			return uint16((sign << 15) | 0x7C00)
		}
	}
	return uint16((sign << 15) | (exp16 << 10) | (frac >> 13))
}

// FloatToHalfSlice packs src into dst, which must be at least as long.
func FloatToHalfSlice(src []float32, dst []uint16) {
	for i, v := range src {
		dst[i] = FloatToHalf(v)
	}
}
