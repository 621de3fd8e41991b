package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// File represents the root of a YAML directive file.
type File struct {
	// Version of the directive schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Enums optionally declares enum shapes inline, for hosts that do not
	// supply them from source code.
	Enums []EnumDecl `yaml:"enums,omitempty"`

	// Conversions is the list of conversion derivations to generate.
	Conversions []Conversion `yaml:"conversions"`
}

// EnumDecl declares one enum shape inline.
type EnumDecl struct {
	Name     string        `yaml:"name"`
	Variants []VariantDecl `yaml:"variants"`
}

// VariantDecl declares one variant shape. Exactly one of Positional and Named
// may be set; neither means a unit variant.
type VariantDecl struct {
	Name string `yaml:"name"`

	// Positional lists field type descriptors in order.
	Positional []string `yaml:"positional,omitempty"`

	// Named lists field name/type pairs, preserving declaration order.
	Named FieldDecls `yaml:"named,omitempty"`
}

// FieldDecl is one named field declaration.
type FieldDecl struct {
	Name string
	Type string
}

// FieldDecls is an order-preserving list of named field declarations,
// unmarshaled from a YAML mapping.
type FieldDecls []FieldDecl

// Direction selects which side of the conversion carries the directives.
type Direction string

const (
	// DirectionFrom derives Other -> Annotated conversions; the annotated
	// enum is the target of every generated function.
	DirectionFrom Direction = "from"
	// DirectionInto derives Annotated -> Other conversions; the annotated
	// enum is the source of every generated function.
	DirectionInto Direction = "into"
)

// IsValid returns true if the direction is a recognized value.
func (d Direction) IsValid() bool {
	return d == DirectionFrom || d == DirectionInto
}

// Conversion declares one derivation: an annotated enum, a direction, the
// enum-level default participant set, and per-variant directives.
type Conversion struct {
	// Enum is the annotated enum the directives are attached to.
	Enum string `yaml:"enum"`

	// Direction of the derivation; defaults to "from".
	Direction Direction `yaml:"direction,omitempty"`

	// With is the enum-level default participant set. Accepts a single
	// string or a list.
	With StringArray `yaml:"with,omitempty"`

	// Variants lists the per-variant directives in declaration order.
	// Annotated variants absent from this list are unmapped.
	Variants []VariantDirective `yaml:"variants,omitempty"`
}

// VariantDirective attaches mapping directives to one annotated variant.
type VariantDirective struct {
	Name string `yaml:"name"`

	// Map is the variant-level directive: bare marker or explicit refs.
	Map *MapSpec `yaml:"map,omitempty"`

	// Fields holds field-level overrides, keyed by the annotated side's
	// field name (or position for positional variants).
	Fields FieldSpecs `yaml:"fields,omitempty"`
}

// MapSpec is the variant-level directive value. YAML forms:
//   - true: bare marker, expand over the default set
//   - "Enum": that enum, identical variant name
//   - "Enum::Variant": explicit counterpart
//   - a sequence of the above reference strings
type MapSpec struct {
	// Bare is true for the bare-marker form.
	Bare bool

	// Raw holds the reference strings as written.
	Raw []string

	// Refs holds the parsed references; populated by Parse.
	Refs []VariantRef
}

// FieldSpec is one field-level override: a target-side field and the
// counterpart references supplying it.
type FieldSpec struct {
	// Target is the annotated side's field name, or a decimal position for
	// positional variants.
	Target string

	// Raw holds the reference strings as written.
	Raw StringArray

	// Refs holds the parsed references; populated by Parse.
	Refs []FieldRef
}

// FieldSpecs is an order-preserving list of field overrides, unmarshaled
// from a YAML mapping.
type FieldSpecs []FieldSpec

// Get returns the spec for the given target field, or nil if absent.
func (f FieldSpecs) Get(target string) *FieldSpec {
	for i := range f {
		if f[i].Target == target {
			return &f[i]
		}
	}

	return nil
}

// VariantRef is a parsed "Enum" or "Enum::Variant" reference.
// Variant is empty for the enum-only form.
type VariantRef struct {
	Enum    string
	Variant string
}

// String returns the reference as written.
func (r VariantRef) String() string {
	if r.Variant == "" {
		return r.Enum
	}

	return r.Enum + "::" + r.Variant
}

// FieldRef is a parsed "Enum::Variant.field" or "Enum::Variant.N" reference.
type FieldRef struct {
	Enum    string
	Variant string

	// FieldName is set for named references; empty for positional ones.
	FieldName string

	// FieldIndex is set for positional references.
	FieldIndex int

	// Positional is true when the reference addresses a field by position.
	Positional bool
}

// String returns the reference as written.
func (r FieldRef) String() string {
	if r.Positional {
		return fmt.Sprintf("%s::%s.%d", r.Enum, r.Variant, r.FieldIndex)
	}

	return fmt.Sprintf("%s::%s.%s", r.Enum, r.Variant, r.FieldName)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdent reports whether s is a valid identifier.
func IsIdent(s string) bool {
	return identRe.MatchString(s)
}

// ParseVariantRef parses "Enum" or "Enum::Variant".
func ParseVariantRef(s string) (VariantRef, error) {
	parts := strings.Split(s, "::")

	switch len(parts) {
	case 1:
		if !IsIdent(parts[0]) {
			return VariantRef{}, fmt.Errorf("invalid enum name %q", parts[0])
		}

		return VariantRef{Enum: parts[0]}, nil

	case 2:
		if !IsIdent(parts[0]) || !IsIdent(parts[1]) {
			return VariantRef{}, fmt.Errorf("expected Enum or Enum::Variant, got %q", s)
		}

		return VariantRef{Enum: parts[0], Variant: parts[1]}, nil

	default:
		return VariantRef{}, fmt.Errorf("expected Enum or Enum::Variant, got %q", s)
	}
}

// ParseFieldRef parses "Enum::Variant.field" or "Enum::Variant.N".
func ParseFieldRef(s string) (FieldRef, error) {
	dot := strings.LastIndex(s, ".")
	if dot < 0 {
		return FieldRef{}, fmt.Errorf("expected Enum::Variant.field, got %q", s)
	}

	vref, err := ParseVariantRef(s[:dot])
	if err != nil || vref.Variant == "" {
		return FieldRef{}, fmt.Errorf("expected Enum::Variant.field, got %q", s)
	}

	ref := FieldRef{Enum: vref.Enum, Variant: vref.Variant}

	tail := s[dot+1:]
	if idx, err := strconv.Atoi(tail); err == nil {
		if idx < 0 {
			return FieldRef{}, fmt.Errorf("negative field position in %q", s)
		}

		ref.FieldIndex = idx
		ref.Positional = true

		return ref, nil
	}

	if !IsIdent(tail) {
		return FieldRef{}, fmt.Errorf("expected a field name or position in %q", s)
	}

	ref.FieldName = tail

	return ref, nil
}
