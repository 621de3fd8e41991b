package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantKind_String(t *testing.T) {
	assert.Equal(t, "unit", KindUnit.String())
	assert.Equal(t, "positional", KindPositional.String())
	assert.Equal(t, "named", KindNamed.String())
	assert.Equal(t, "unknown", VariantKind(42).String())
}

func TestVariantShape_Field(t *testing.T) {
	v := VariantShape{
		Name: "Record",
		Kind: KindNamed,
		Fields: []FieldShape{
			{Name: "name", Type: "string"},
			{Name: "value", Type: "int32"},
		},
	}

	f, idx, ok := v.Field("value")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "int32", f.Type)

	_, _, ok = v.Field("missing")
	assert.False(t, ok)
}

func TestRegistry_AddAndLookup(t *testing.T) {
	registry := NewRegistry()

	shape := &EnumShape{
		Name: "Color",
		Variants: []VariantShape{
			{Name: "Red", Kind: KindUnit},
			{Name: "Custom", Kind: KindPositional, Fields: []FieldShape{{Type: "uint8"}}},
		},
	}
	require.NoError(t, registry.Add(shape))
	assert.Equal(t, 1, registry.Len())

	got, ok := registry.Lookup("Color")
	require.True(t, ok)
	assert.Equal(t, []string{"Red", "Custom"}, got.VariantNames())

	_, ok = registry.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Add(&EnumShape{Name: "Color", Variants: []VariantShape{{Name: "Red"}}}))

	err := registry.Add(&EnumShape{Name: "Color", Variants: []VariantShape{{Name: "Blue"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Color")
}

func TestRegistry_RejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape *EnumShape
	}{
		{
			name: "duplicate variant names",
			shape: &EnumShape{Name: "E", Variants: []VariantShape{
				{Name: "A", Kind: KindUnit},
				{Name: "A", Kind: KindUnit},
			}},
		},
		{
			name: "unit variant with fields",
			shape: &EnumShape{Name: "E", Variants: []VariantShape{
				{Name: "A", Kind: KindUnit, Fields: []FieldShape{{Type: "int"}}},
			}},
		},
		{
			name: "positional variant with named fields",
			shape: &EnumShape{Name: "E", Variants: []VariantShape{
				{Name: "A", Kind: KindPositional, Fields: []FieldShape{{Name: "x", Type: "int"}}},
			}},
		},
		{
			name: "named variant with duplicate fields",
			shape: &EnumShape{Name: "E", Variants: []VariantShape{
				{Name: "A", Kind: KindNamed, Fields: []FieldShape{
					{Name: "x", Type: "int"},
					{Name: "x", Type: "string"},
				}},
			}},
		},
		{
			name:  "empty enum name",
			shape: &EnumShape{Variants: []VariantShape{{Name: "A"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			assert.Error(t, registry.Add(tt.shape))
		})
	}
}

func TestVariantRef(t *testing.T) {
	assert.Equal(t, "Color::Red", VariantRef("Color", "Red"))
}
