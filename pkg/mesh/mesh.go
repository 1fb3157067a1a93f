// Package mesh holds indexed or non-indexed geometry in a format-agnostic
// container.
//
// A Data value owns or borrows two byte buffers, one for indices and one for
// vertices, together with typed descriptors that say how to read them. All
// accessors return views into those buffers; nothing is copied until one of
// the normalising conversions (Positions3DAsArray, ColorsInto, ...) is
// called. Importers produce Data, consumers either read the views directly or
// ask for a canonical float32 representation.
//
// Data performs no internal locking. Read-only use from several goroutines is
// safe; mutation or release needs external synchronisation.
package mesh

import (
	"fmt"
	"strconv"
	"strings"
)

// Primitive is the topology of a mesh.
type Primitive uint8

const (
	PrimitivePoints Primitive = iota + 1
	PrimitiveLines
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	primitiveEnd
)

var primitiveNames = [...]string{
	PrimitivePoints:        "Points",
	PrimitiveLines:         "Lines",
	PrimitiveLineLoop:      "LineLoop",
	PrimitiveLineStrip:     "LineStrip",
	PrimitiveTriangles:     "Triangles",
	PrimitiveTriangleStrip: "TriangleStrip",
	PrimitiveTriangleFan:   "TriangleFan",
}

func (p Primitive) valid() bool { return p > 0 && p < primitiveEnd }

func (p Primitive) String() string {
	if !p.valid() {
		return "Primitive(" + strconv.Itoa(int(p)) + ")"
	}
	return primitiveNames[p]
}

// ParsePrimitive is the case-insensitive inverse of String.
func ParsePrimitive(s string) (Primitive, error) {
	s = strings.TrimSpace(s)
	for p := PrimitivePoints; p < primitiveEnd; p++ {
		if strings.EqualFold(primitiveNames[p], s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPrimitive, s)
}

// DataFlags describe what a container may do with a buffer.
type DataFlags uint8

const (
	// DataOwned means the container frees the buffer when it is closed.
	DataOwned DataFlags = 1 << iota
	// DataMutable means the buffer may be written through the Mutable accessors.
	DataMutable
)

func (f DataFlags) String() string {
	if f == 0 {
		return "{}"
	}
	var parts []string
	if f&DataOwned != 0 {
		parts = append(parts, "Owned")
	}
	if f&DataMutable != 0 {
		parts = append(parts, "Mutable")
	}
	if rest := f &^ (DataOwned | DataMutable); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// Vector2, Vector3 and Color4 are the canonical element types produced by
// the normalising conversions.
type (
	Vector2 [2]float32
	Vector3 [3]float32
	Color4  [4]float32
)
