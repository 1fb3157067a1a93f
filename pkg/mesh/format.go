package mesh

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samcharles93/meshdata/internal/packing"
)

// IndexType is the element type of an index buffer. The zero value means
// the mesh is not indexed.
type IndexType uint8

const (
	IndexUnsignedByte IndexType = iota + 1
	IndexUnsignedShort
	IndexUnsignedInt
)

// Size returns the byte size of one index, or 0 for an invalid type.
func (t IndexType) Size() int {
	switch t {
	case IndexUnsignedByte:
		return 1
	case IndexUnsignedShort:
		return 2
	case IndexUnsignedInt:
		return 4
	}
	return 0
}

func (t IndexType) String() string {
	switch t {
	case IndexUnsignedByte:
		return "UnsignedByte"
	case IndexUnsignedShort:
		return "UnsignedShort"
	case IndexUnsignedInt:
		return "UnsignedInt"
	}
	return "IndexType(" + strconv.Itoa(int(t)) + ")"
}

// ParseIndexType accepts the String form as well as uint8/uint16/uint32.
func ParseIndexType(s string) (IndexType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unsignedbyte", "uint8", "u8":
		return IndexUnsignedByte, nil
	case "unsignedshort", "uint16", "u16":
		return IndexUnsignedShort, nil
	case "unsignedint", "uint32", "u32":
		return IndexUnsignedInt, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidIndexType, s)
}

// VertexFormat tags the encoding of one attribute element. Formats are laid
// out as four runs of the same thirteen component kinds, one run per
// component count.
type VertexFormat uint16

const (
	FormatFloat VertexFormat = iota + 1
	FormatHalf
	FormatDouble
	FormatUnsignedByte
	FormatUnsignedByteNormalized
	FormatByte
	FormatByteNormalized
	FormatUnsignedShort
	FormatUnsignedShortNormalized
	FormatShort
	FormatShortNormalized
	FormatUnsignedInt
	FormatInt

	FormatVector2
	FormatVector2h
	FormatVector2d
	FormatVector2ub
	FormatVector2ubNormalized
	FormatVector2b
	FormatVector2bNormalized
	FormatVector2us
	FormatVector2usNormalized
	FormatVector2s
	FormatVector2sNormalized
	FormatVector2ui
	FormatVector2i

	FormatVector3
	FormatVector3h
	FormatVector3d
	FormatVector3ub
	FormatVector3ubNormalized
	FormatVector3b
	FormatVector3bNormalized
	FormatVector3us
	FormatVector3usNormalized
	FormatVector3s
	FormatVector3sNormalized
	FormatVector3ui
	FormatVector3i

	FormatVector4
	FormatVector4h
	FormatVector4d
	FormatVector4ub
	FormatVector4ubNormalized
	FormatVector4b
	FormatVector4bNormalized
	FormatVector4us
	FormatVector4usNormalized
	FormatVector4s
	FormatVector4sNormalized
	FormatVector4ui
	FormatVector4i

	formatEnd
)

// conversionRule says how one component becomes a float32.
type conversionRule uint8

const (
	ruleCopy   conversionRule = iota + 1 // float32, copied verbatim
	ruleHalf                             // half float, expanded
	ruleCast                             // integer or double, numeric cast
	ruleUnpack                           // normalized integer, divided by the type maximum
)

type componentType struct {
	size   int
	cast   func(b []byte) float32
	unpack func(b []byte) float32
}

var ne = binary.NativeEndian

var (
	componentFloat = componentType{size: 4, cast: func(b []byte) float32 {
		return math.Float32frombits(ne.Uint32(b))
	}}
	componentHalf = componentType{size: 2, cast: func(b []byte) float32 {
		return packing.HalfToFloat(ne.Uint16(b))
	}}
	componentDouble = componentType{size: 8, cast: func(b []byte) float32 {
		return float32(math.Float64frombits(ne.Uint64(b)))
	}}
	componentUint8 = componentType{size: 1,
		cast:   func(b []byte) float32 { return float32(b[0]) },
		unpack: func(b []byte) float32 { return packing.UnpackUint8(b[0]) },
	}
	componentInt8 = componentType{size: 1,
		cast:   func(b []byte) float32 { return float32(int8(b[0])) },
		unpack: func(b []byte) float32 { return packing.UnpackInt8(int8(b[0])) },
	}
	componentUint16 = componentType{size: 2,
		cast:   func(b []byte) float32 { return float32(ne.Uint16(b)) },
		unpack: func(b []byte) float32 { return packing.UnpackUint16(ne.Uint16(b)) },
	}
	componentInt16 = componentType{size: 2,
		cast:   func(b []byte) float32 { return float32(int16(ne.Uint16(b))) },
		unpack: func(b []byte) float32 { return packing.UnpackInt16(int16(ne.Uint16(b))) },
	}
	componentUint32 = componentType{size: 4, cast: func(b []byte) float32 {
		return float32(ne.Uint32(b))
	}}
	componentInt32 = componentType{size: 4, cast: func(b []byte) float32 {
		return float32(int32(ne.Uint32(b)))
	}}
)

// formatKind is one entry of the thirteen-kind run.
type formatKind struct {
	component  *componentType
	normalized bool
	rule       conversionRule
	scalar     string // name of the one-component format
	suffix     string // suffix of the VectorN names
}

var formatKinds = [...]formatKind{
	{&componentFloat, false, ruleCopy, "Float", ""},
	{&componentHalf, false, ruleHalf, "Half", "h"},
	{&componentDouble, false, ruleCast, "Double", "d"},
	{&componentUint8, false, ruleCast, "UnsignedByte", "ub"},
	{&componentUint8, true, ruleUnpack, "UnsignedByteNormalized", "ubNormalized"},
	{&componentInt8, false, ruleCast, "Byte", "b"},
	{&componentInt8, true, ruleUnpack, "ByteNormalized", "bNormalized"},
	{&componentUint16, false, ruleCast, "UnsignedShort", "us"},
	{&componentUint16, true, ruleUnpack, "UnsignedShortNormalized", "usNormalized"},
	{&componentInt16, false, ruleCast, "Short", "s"},
	{&componentInt16, true, ruleUnpack, "ShortNormalized", "sNormalized"},
	{&componentUint32, false, ruleCast, "UnsignedInt", "ui"},
	{&componentInt32, false, ruleCast, "Int", "i"},
}

// formatInfo is the resolved table entry for one VertexFormat.
type formatInfo struct {
	kind       *formatKind
	components int
	size       int
}

var formatTable = func() [formatEnd]formatInfo {
	var tbl [formatEnd]formatInfo
	for f := FormatFloat; f < formatEnd; f++ {
		k := &formatKinds[int(f-1)%len(formatKinds)]
		n := int(f-1)/len(formatKinds) + 1
		tbl[f] = formatInfo{kind: k, components: n, size: n * k.component.size}
	}
	return tbl
}()

var formatNames = func() map[string]VertexFormat {
	m := make(map[string]VertexFormat, formatEnd)
	for f := FormatFloat; f < formatEnd; f++ {
		m[strings.ToLower(f.String())] = f
	}
	return m
}()

func (f VertexFormat) valid() bool { return f > 0 && f < formatEnd }

func (f VertexFormat) info() *formatInfo {
	if !f.valid() {
		panic(fmt.Sprintf("mesh: no table entry for %v", f))
	}
	return &formatTable[f]
}

// Size returns the byte size of one element, or 0 for an invalid format.
func (f VertexFormat) Size() int {
	if !f.valid() {
		return 0
	}
	return formatTable[f].size
}

// ComponentCount returns 1 to 4, or 0 for an invalid format.
func (f VertexFormat) ComponentCount() int {
	if !f.valid() {
		return 0
	}
	return formatTable[f].components
}

// ComponentFormat returns the one-component format of the same kind, for
// example FormatUnsignedByteNormalized for FormatVector3ubNormalized.
func (f VertexFormat) ComponentFormat() VertexFormat {
	if !f.valid() {
		return 0
	}
	return VertexFormat(int(f-1)%len(formatKinds) + 1)
}

// IsNormalized reports whether integer components map onto [0, 1] or [-1, 1].
func (f VertexFormat) IsNormalized() bool {
	return f.valid() && formatTable[f].kind.normalized
}

func (f VertexFormat) String() string {
	if !f.valid() {
		return "VertexFormat(" + strconv.Itoa(int(f)) + ")"
	}
	info := &formatTable[f]
	if info.components == 1 {
		return info.kind.scalar
	}
	return "Vector" + strconv.Itoa(info.components) + info.kind.suffix
}

// ParseVertexFormat is the case-insensitive inverse of String.
func ParseVertexFormat(s string) (VertexFormat, error) {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}
