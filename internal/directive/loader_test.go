package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enumcast-generator/internal/diagnostic"
	"enumcast-generator/internal/enums"
)

func TestParse_AllDirectiveForms(t *testing.T) {
	yaml := `
version: "1"
conversions:
  - enum: Bigger
    with: [Smaller, Other]
    variants:
      - name: One
        map: true
      - name: Two
        map: Smaller
      - name: Three
        map: Smaller::Tri
      - name: Four
        map: [Smaller::Quad, Other::Quad]
        fields:
          value: Smaller::Quad.0
          label: [Smaller::Quad.1, Other::Quad.tag]
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, f.Conversions, 1)

	conv := f.Conversions[0]
	assert.Equal(t, "Bigger", conv.Enum)
	assert.Equal(t, DirectionFrom, conv.Direction, "direction defaults to from")
	assert.Equal(t, StringArray{"Smaller", "Other"}, conv.With)
	require.Len(t, conv.Variants, 4)

	assert.True(t, conv.Variants[0].Map.Bare)
	assert.Equal(t, []string{"Smaller"}, conv.Variants[1].Map.Raw)
	assert.Equal(t, []string{"Smaller::Tri"}, conv.Variants[2].Map.Raw)
	assert.Equal(t, []string{"Smaller::Quad", "Other::Quad"}, conv.Variants[3].Map.Raw)

	fields := conv.Variants[3].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "value", fields[0].Target)
	assert.Equal(t, StringArray{"Smaller::Quad.0"}, fields[0].Raw)
	assert.Equal(t, "label", fields[1].Target)
	assert.Equal(t, StringArray{"Smaller::Quad.1", "Other::Quad.tag"}, fields[1].Raw)
}

func TestParse_SingleStringWith(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    with: Smaller
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, StringArray{"Smaller"}, f.Conversions[0].With)
	assert.Equal(t, "1", f.Version, "version defaults to 1")
}

func TestParse_MapFalseRejected(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    variants:
      - name: One
        map: false
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "omit the variant")
}

func TestValidate_ParsesRefs(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    with: Smaller
    variants:
      - name: Two
        map: Smaller::Duo
        fields:
          value: Smaller::Duo.0
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid(), "unexpected errors: %v", diags.Errors)

	vd := f.Conversions[0].Variants[0]
	require.Len(t, vd.Map.Refs, 1)
	assert.Equal(t, VariantRef{Enum: "Smaller", Variant: "Duo"}, vd.Map.Refs[0])

	require.Len(t, vd.Fields[0].Refs, 1)
	assert.True(t, vd.Fields[0].Refs[0].Positional)
	assert.Equal(t, 0, vd.Fields[0].Refs[0].FieldIndex)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    with: [Smaller, Smaller]
    variants:
      - name: One
        map: "Not::A::Ref"
      - name: One
        map: true
      - name: Two
        map: true
        fields:
          value: "no-dot-here"
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	diags := Validate(f)
	require.True(t, diags.HasErrors())

	// Duplicate with entry, malformed ref, duplicate variant, malformed
	// field ref: four independent findings.
	assert.Len(t, diags.Errors, 4)
	for _, d := range diags.Errors {
		assert.Equal(t, diagnostic.CodeMalformedDirective, d.Code)
	}
}

func TestValidate_BareWithoutWith(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    variants:
      - name: One
        map: true
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	diags := Validate(f)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeMalformedDirective, diags.Errors[0].Code)
	assert.Contains(t, diags.Errors[0].Message, "with list")
}

func TestBuildRegistry(t *testing.T) {
	yaml := `
enums:
  - name: Smaller
    variants:
      - name: One
      - name: Duo
        positional: [int64, string]
      - name: Tri
        named:
          amount: int64
          label: string
conversions: []
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	registry, err := BuildRegistry(f)
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())

	shape, ok := registry.Lookup("Smaller")
	require.True(t, ok)
	require.Len(t, shape.Variants, 3)

	assert.Equal(t, enums.KindUnit, shape.Variants[0].Kind)
	assert.Equal(t, enums.KindPositional, shape.Variants[1].Kind)
	assert.Equal(t, 2, shape.Variants[1].Arity())

	tri := shape.Variant("Tri")
	require.NotNil(t, tri)
	assert.Equal(t, enums.KindNamed, tri.Kind)
	assert.Equal(t, "amount", tri.Fields[0].Name, "declaration order preserved")
	assert.Equal(t, "label", tri.Fields[1].Name)
}

func TestBuildRegistry_BothKindsRejected(t *testing.T) {
	yaml := `
enums:
  - name: Smaller
    variants:
      - name: Duo
        positional: [int64]
        named:
          amount: int64
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = BuildRegistry(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both positional and named")
}

func TestMarshal_RoundTrip(t *testing.T) {
	yaml := `
conversions:
  - enum: Bigger
    with: Smaller
    variants:
      - name: Four
        map: [Smaller::Quad, Smaller::Other]
        fields:
          value: Smaller::Quad.0
`
	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}
