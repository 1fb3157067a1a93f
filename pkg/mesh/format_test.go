package mesh

import (
	"errors"
	"testing"
)

func TestVertexFormatTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format     VertexFormat
		name       string
		size       int
		components int
		normalized bool
	}{
		{FormatFloat, "Float", 4, 1, false},
		{FormatDouble, "Double", 8, 1, false},
		{FormatShortNormalized, "ShortNormalized", 2, 1, true},
		{FormatVector2h, "Vector2h", 4, 2, false},
		{FormatVector3, "Vector3", 12, 3, false},
		{FormatVector3ubNormalized, "Vector3ubNormalized", 3, 3, true},
		{FormatVector3sNormalized, "Vector3sNormalized", 6, 3, true},
		{FormatVector4us, "Vector4us", 8, 4, false},
		{FormatVector4d, "Vector4d", 32, 4, false},
		{FormatVector4i, "Vector4i", 16, 4, false},
	}
	for _, tc := range cases {
		if got := tc.format.String(); got != tc.name {
			t.Fatalf("String(%d): got %q want %q", tc.format, got, tc.name)
		}
		if got := tc.format.Size(); got != tc.size {
			t.Fatalf("%s size: got %d want %d", tc.name, got, tc.size)
		}
		if got := tc.format.ComponentCount(); got != tc.components {
			t.Fatalf("%s components: got %d want %d", tc.name, got, tc.components)
		}
		if got := tc.format.IsNormalized(); got != tc.normalized {
			t.Fatalf("%s normalized: got %v want %v", tc.name, got, tc.normalized)
		}
	}

	if VertexFormat(0).Size() != 0 || formatEnd.ComponentCount() != 0 {
		t.Fatalf("invalid formats should report zero size and components")
	}
}

func TestParseVertexFormat(t *testing.T) {
	t.Parallel()

	for f := FormatFloat; f < formatEnd; f++ {
		got, err := ParseVertexFormat(f.String())
		if err != nil {
			t.Fatalf("parse %v: %v", f, err)
		}
		if got != f {
			t.Fatalf("parse %v: got %v", f, got)
		}
	}
	if got, err := ParseVertexFormat(" vector3UBnormalized "); err != nil || got != FormatVector3ubNormalized {
		t.Fatalf("case-insensitive parse: got %v, %v", got, err)
	}
	if _, err := ParseVertexFormat("Vector5"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestIndexType(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want IndexType
		size int
	}{
		{"UnsignedByte", IndexUnsignedByte, 1},
		{"uint16", IndexUnsignedShort, 2},
		{"u32", IndexUnsignedInt, 4},
	} {
		got, err := ParseIndexType(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want || got.Size() != tc.size {
			t.Fatalf("parse %q: got %v (size %d) want %v (size %d)", tc.in, got, got.Size(), tc.want, tc.size)
		}
	}
	if _, err := ParseIndexType("uint64"); !errors.Is(err, ErrInvalidIndexType) {
		t.Fatalf("expected ErrInvalidIndexType, got %v", err)
	}
}

func TestAttributeNames(t *testing.T) {
	t.Parallel()

	if got := AttributeTextureCoordinates.String(); got != "TextureCoordinates" {
		t.Fatalf("String: got %q", got)
	}
	custom := CustomAttribute(3)
	if !custom.IsCustom() || custom.CustomID() != 3 {
		t.Fatalf("custom attribute: got %v id %d", custom, custom.CustomID())
	}
	if got := custom.String(); got != "Custom(3)" {
		t.Fatalf("custom String: got %q", got)
	}
	for _, a := range []Attribute{AttributePosition, AttributeNormal, AttributeTextureCoordinates, AttributeColor, custom} {
		got, err := ParseAttribute(a.String())
		if err != nil || got != a {
			t.Fatalf("parse %v: got %v, %v", a, got, err)
		}
	}
	if got, _ := ParseAttribute("texcoord"); got != AttributeTextureCoordinates {
		t.Fatalf("short name: got %v", got)
	}
	if _, err := ParseAttribute("Tangent"); !errors.Is(err, ErrInvalidAttribute) {
		t.Fatalf("expected ErrInvalidAttribute, got %v", err)
	}
}

func TestAttributeAccepts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   Attribute
		format VertexFormat
		want   bool
	}{
		{AttributePosition, FormatVector2, true},
		{AttributePosition, FormatVector3sNormalized, true},
		{AttributePosition, FormatVector4, false},
		{AttributePosition, FormatVector3ui, false},
		{AttributeNormal, FormatVector3h, true},
		{AttributeNormal, FormatVector3ubNormalized, false},
		{AttributeNormal, FormatVector2, false},
		{AttributeTextureCoordinates, FormatVector2usNormalized, true},
		{AttributeTextureCoordinates, FormatVector3, false},
		{AttributeColor, FormatVector3ubNormalized, true},
		{AttributeColor, FormatVector4h, true},
		{AttributeColor, FormatVector3b, false},
		{CustomAttribute(0), FormatVector4d, true},
		{CustomAttribute(0), VertexFormat(0), false},
		{Attribute(100), FormatVector3, false},
	}
	for _, tc := range cases {
		if got := tc.name.Accepts(tc.format); got != tc.want {
			t.Fatalf("%v accepts %v: got %v want %v", tc.name, tc.format, got, tc.want)
		}
	}
}

func TestPrimitiveAndFlags(t *testing.T) {
	t.Parallel()

	p, err := ParsePrimitive("triangles")
	if err != nil || p != PrimitiveTriangles {
		t.Fatalf("parse: got %v, %v", p, err)
	}
	if _, err := ParsePrimitive("quads"); !errors.Is(err, ErrInvalidPrimitive) {
		t.Fatalf("expected ErrInvalidPrimitive, got %v", err)
	}
	if got := (DataOwned | DataMutable).String(); got != "Owned|Mutable" {
		t.Fatalf("flags: got %q", got)
	}
	if got := DataFlags(0).String(); got != "{}" {
		t.Fatalf("empty flags: got %q", got)
	}
}
