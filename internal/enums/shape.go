package enums

import (
	"fmt"
	"strings"

	"enumcast-generator/internal/common"
)

// VariantKind represents the shape category of a variant.
type VariantKind int

const (
	KindUnit       VariantKind = iota // no payload
	KindPositional                    // ordered unnamed fields, addressed by index
	KindNamed                         // named fields
)

// String returns a human-readable representation of the kind.
func (k VariantKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindPositional:
		return "positional"
	case KindNamed:
		return "named"
	default:
		return common.UnknownStr
	}
}

// FieldShape describes one field of a variant.
// Name is empty for positional fields; Type is an opaque type descriptor
// (e.g., "int64", "string", "events.Money") never inspected beyond identity.
type FieldShape struct {
	Name string
	Type string
}

// VariantShape describes one named alternative of an enum.
type VariantShape struct {
	Name   string
	Kind   VariantKind
	Fields []FieldShape
}

// Arity returns the number of fields the variant carries.
func (v *VariantShape) Arity() int {
	return len(v.Fields)
}

// Field returns the field with the given name and its index, or false if absent.
// Only meaningful for named variants.
func (v *VariantShape) Field(name string) (FieldShape, int, bool) {
	for i, f := range v.Fields {
		if f.Name == name {
			return f, i, true
		}
	}

	return FieldShape{}, 0, false
}

// EnumShape is the normalized view of one participating enum: an identifier
// plus an ordered sequence of variants. Immutable once registered.
type EnumShape struct {
	Name     string
	Variants []VariantShape
}

// Variant returns the variant with the given name, or nil if absent.
func (e *EnumShape) Variant(name string) *VariantShape {
	for i := range e.Variants {
		if e.Variants[i].Name == name {
			return &e.Variants[i]
		}
	}

	return nil
}

// VariantNames returns the variant names in declaration order.
func (e *EnumShape) VariantNames() []string {
	names := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		names[i] = v.Name
	}

	return names
}

// validate checks the structural invariants of the shape: non-empty names and
// unique variant names within the enum.
func (e *EnumShape) validate() error {
	if e.Name == "" {
		return fmt.Errorf("enum has no name")
	}

	seen := make(map[string]struct{}, len(e.Variants))

	for _, v := range e.Variants {
		if v.Name == "" {
			return fmt.Errorf("enum %s has a variant with no name", e.Name)
		}

		if _, ok := seen[v.Name]; ok {
			return fmt.Errorf("enum %s declares variant %s more than once", e.Name, v.Name)
		}

		seen[v.Name] = struct{}{}

		if err := v.validate(e.Name); err != nil {
			return err
		}
	}

	return nil
}

func (v *VariantShape) validate(enumName string) error {
	switch v.Kind {
	case KindUnit:
		if len(v.Fields) != 0 {
			return fmt.Errorf("unit variant %s::%s must not carry fields", enumName, v.Name)
		}

	case KindPositional:
		for _, f := range v.Fields {
			if f.Name != "" {
				return fmt.Errorf("positional variant %s::%s must not name its fields", enumName, v.Name)
			}
		}

	case KindNamed:
		seen := make(map[string]struct{}, len(v.Fields))

		for _, f := range v.Fields {
			if f.Name == "" {
				return fmt.Errorf("named variant %s::%s has an unnamed field", enumName, v.Name)
			}

			if _, ok := seen[f.Name]; ok {
				return fmt.Errorf("named variant %s::%s declares field %s more than once", enumName, v.Name, f.Name)
			}

			seen[f.Name] = struct{}{}
		}
	}

	return nil
}

// VariantRef returns "Enum::Variant" for diagnostics.
func VariantRef(enum, variant string) string {
	var sb strings.Builder
	sb.WriteString(enum)
	sb.WriteString("::")
	sb.WriteString(variant)

	return sb.String()
}
