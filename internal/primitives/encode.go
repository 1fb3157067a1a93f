package primitives

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/samcharles93/meshdata/internal/packing"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

var ne = binary.NativeEndian

// encode writes the first ComponentCount values into dst in format's
// encoding. Normalized formats clamp to their range, integer formats
// saturate and truncate toward zero.
func encode(dst []byte, format mesh.VertexFormat, values []float32) {
	n := format.ComponentCount()
	if len(values) < n {
		panic(fmt.Sprintf("primitives: %v needs %d values, got %d", format, n, len(values)))
	}
	comp := format.ComponentFormat()
	size := comp.Size()
	for i, v := range values[:n] {
		b := dst[i*size:]
		switch comp {
		case mesh.FormatFloat:
			ne.PutUint32(b, math.Float32bits(v))
		case mesh.FormatHalf:
			ne.PutUint16(b, packing.FloatToHalf(v))
		case mesh.FormatDouble:
			ne.PutUint64(b, math.Float64bits(float64(v)))
		case mesh.FormatUnsignedByte:
			b[0] = uint8(saturate(v, 0, math.MaxUint8))
		case mesh.FormatUnsignedByteNormalized:
			b[0] = packing.PackUint8(v)
		case mesh.FormatByte:
			b[0] = uint8(int8(saturate(v, math.MinInt8, math.MaxInt8)))
		case mesh.FormatByteNormalized:
			b[0] = uint8(packing.PackInt8(v))
		case mesh.FormatUnsignedShort:
			ne.PutUint16(b, uint16(saturate(v, 0, math.MaxUint16)))
		case mesh.FormatUnsignedShortNormalized:
			ne.PutUint16(b, packing.PackUint16(v))
		case mesh.FormatShort:
			ne.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
		case mesh.FormatShortNormalized:
			ne.PutUint16(b, uint16(packing.PackInt16(v)))
		case mesh.FormatUnsignedInt:
			ne.PutUint32(b, uint32(saturate(v, 0, math.MaxUint32)))
		case mesh.FormatInt:
			ne.PutUint32(b, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
		default:
			panic(fmt.Sprintf("primitives: can't encode %v", format))
		}
	}
}

// saturate clamps v to [lo, hi] so the integer conversion that follows is
// always in range. NaN becomes 0.
func saturate(v float32, lo, hi float64) float64 {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f < lo:
		return lo
	case f > hi:
		return hi
	}
	return f
}

func encodeIndex(dst []byte, typ mesh.IndexType, i int, v uint32) {
	switch typ {
	case mesh.IndexUnsignedByte:
		dst[i] = uint8(v)
	case mesh.IndexUnsignedShort:
		ne.PutUint16(dst[2*i:], uint16(v))
	case mesh.IndexUnsignedInt:
		ne.PutUint32(dst[4*i:], v)
	default:
		panic(fmt.Sprintf("primitives: can't encode index type %v", typ))
	}
}
