package mesh

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Attribute is the semantic role of a vertex attribute. Values from
// AttributeCustom upwards are application-defined.
type Attribute uint16

const (
	AttributePosition Attribute = iota + 1
	AttributeNormal
	AttributeTextureCoordinates
	AttributeColor

	AttributeCustom Attribute = 32768
)

// CustomAttribute returns the n-th application-defined attribute.
func CustomAttribute(n uint16) Attribute {
	if n >= 32768 {
		panic(fmt.Sprintf("mesh: custom attribute %d too large", n))
	}
	return AttributeCustom + Attribute(n)
}

// IsCustom reports whether a is application-defined.
func (a Attribute) IsCustom() bool { return a >= AttributeCustom }

// CustomID returns n for CustomAttribute(n). It panics for builtin attributes.
func (a Attribute) CustomID() uint16 {
	if !a.IsCustom() {
		panic(fmt.Sprintf("mesh: %v is not a custom attribute", a))
	}
	return uint16(a - AttributeCustom)
}

func (a Attribute) String() string {
	switch a {
	case AttributePosition:
		return "Position"
	case AttributeNormal:
		return "Normal"
	case AttributeTextureCoordinates:
		return "TextureCoordinates"
	case AttributeColor:
		return "Color"
	}
	if a.IsCustom() {
		return "Custom(" + strconv.Itoa(int(a.CustomID())) + ")"
	}
	return "Attribute(" + strconv.Itoa(int(a)) + ")"
}

// ParseAttribute accepts the String form plus the short names position,
// normal, texcoord and color.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "position":
		return AttributePosition, nil
	case "normal":
		return AttributeNormal, nil
	case "texturecoordinates", "texcoord", "texcoords":
		return AttributeTextureCoordinates, nil
	case "color", "colour":
		return AttributeColor, nil
	}
	if inner, ok := strings.CutPrefix(s, "Custom("); ok {
		if num, ok := strings.CutSuffix(inner, ")"); ok {
			n, err := strconv.ParseUint(num, 10, 15)
			if err == nil {
				return CustomAttribute(uint16(n)), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAttribute, s)
}

func formatSet(fs ...VertexFormat) map[VertexFormat]bool {
	m := make(map[VertexFormat]bool, len(fs))
	for _, f := range fs {
		m[f] = true
	}
	return m
}

var (
	twoComponentFormats = []VertexFormat{
		FormatVector2, FormatVector2h,
		FormatVector2ub, FormatVector2ubNormalized,
		FormatVector2b, FormatVector2bNormalized,
		FormatVector2us, FormatVector2usNormalized,
		FormatVector2s, FormatVector2sNormalized,
	}
	threeComponentFormats = []VertexFormat{
		FormatVector3, FormatVector3h,
		FormatVector3ub, FormatVector3ubNormalized,
		FormatVector3b, FormatVector3bNormalized,
		FormatVector3us, FormatVector3usNormalized,
		FormatVector3s, FormatVector3sNormalized,
	}

	// compatibleFormats lists the encodings each builtin attribute may use.
	// The normalising conversions only know how to read these.
	compatibleFormats = map[Attribute]map[VertexFormat]bool{
		AttributePosition:           formatSet(slices.Concat(twoComponentFormats, threeComponentFormats)...),
		AttributeNormal:             formatSet(FormatVector3, FormatVector3h, FormatVector3bNormalized, FormatVector3sNormalized),
		AttributeTextureCoordinates: formatSet(twoComponentFormats...),
		AttributeColor: formatSet(
			FormatVector3, FormatVector3h, FormatVector3ubNormalized, FormatVector3usNormalized,
			FormatVector4, FormatVector4h, FormatVector4ubNormalized, FormatVector4usNormalized,
		),
	}
)

// Accepts reports whether format is a valid encoding for a.
func (a Attribute) Accepts(format VertexFormat) bool {
	if !format.valid() {
		return false
	}
	if a.IsCustom() {
		return true
	}
	return compatibleFormats[a][format]
}
