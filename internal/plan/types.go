package plan

import (
	"strconv"

	"enumcast-generator/internal/enums"
)

// FieldKey addresses one field of a variant: by name for named variants, by
// position for positional ones.
type FieldKey struct {
	Name  string
	Index int
}

// NamedKey returns a FieldKey addressing a field by name.
func NamedKey(name string) FieldKey {
	return FieldKey{Name: name}
}

// IndexKey returns a FieldKey addressing a field by position.
func IndexKey(i int) FieldKey {
	return FieldKey{Index: i}
}

// IsNamed reports whether the key addresses a field by name.
func (k FieldKey) IsNamed() bool {
	return k.Name != ""
}

// String returns the field name, or the decimal position for positional keys.
func (k FieldKey) String() string {
	if k.IsNamed() {
		return k.Name
	}

	return strconv.Itoa(k.Index)
}

// FieldCorrespondence pairs one target-side field with the source-side field
// supplying it.
type FieldCorrespondence struct {
	Target FieldKey `yaml:"target"`
	Source FieldKey `yaml:"source"`
}

// ConversionRule is one resolved unit of work: destructure the source
// variant, convert each field, construct the target variant.
type ConversionRule struct {
	SourceEnum    string `yaml:"source_enum"`
	SourceVariant string `yaml:"source_variant"`
	TargetEnum    string `yaml:"target_enum"`
	TargetVariant string `yaml:"target_variant"`

	// SourceKind and TargetKind record the shape categories of the matched
	// variants; they may differ only when every field is explicitly mapped.
	SourceKind enums.VariantKind `yaml:"-"`
	TargetKind enums.VariantKind `yaml:"-"`

	// Fields is the field correspondence in target declaration order.
	// Empty for unit variants.
	Fields []FieldCorrespondence `yaml:"fields,omitempty"`
}

// ConversionPlan is the ordered rule set for one (source, target) enum pair.
// Invariant after successful resolution: every source variant appears in
// exactly one rule, so the generated function is total.
type ConversionPlan struct {
	SourceEnum string           `yaml:"source"`
	TargetEnum string           `yaml:"target"`
	Rules      []ConversionRule `yaml:"rules"`
}

// FunctionName returns the conventional name of the generated conversion
// function, e.g. "BiggerFromSmaller".
func (p *ConversionPlan) FunctionName() string {
	return p.TargetEnum + "From" + p.SourceEnum
}
