package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariantRef(t *testing.T) {
	tests := []struct {
		input   string
		want    VariantRef
		wantErr bool
	}{
		{input: "Bigger", want: VariantRef{Enum: "Bigger"}},
		{input: "Bigger::Two", want: VariantRef{Enum: "Bigger", Variant: "Two"}},
		{input: "", wantErr: true},
		{input: "Bigger::", wantErr: true},
		{input: "::Two", wantErr: true},
		{input: "A::B::C", wantErr: true},
		{input: "123Enum", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseVariantRef(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}

		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseFieldRef(t *testing.T) {
	tests := []struct {
		input   string
		want    FieldRef
		wantErr bool
	}{
		{
			input: "Bigger::Two.value",
			want:  FieldRef{Enum: "Bigger", Variant: "Two", FieldName: "value"},
		},
		{
			input: "Bigger::Two.0",
			want:  FieldRef{Enum: "Bigger", Variant: "Two", FieldIndex: 0, Positional: true},
		},
		{
			input: "Bigger::Two.12",
			want:  FieldRef{Enum: "Bigger", Variant: "Two", FieldIndex: 12, Positional: true},
		},
		{input: "Bigger::Two", wantErr: true},
		{input: "Bigger.value", wantErr: true},
		{input: "Bigger::Two.-1", wantErr: true},
		{input: "Bigger::Two.a.b", wantErr: true},
		{input: ".value", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFieldRef(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}

		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestFieldRefString_RoundTrip(t *testing.T) {
	for _, s := range []string{"Bigger::Two.value", "Bigger::Two.3"} {
		ref, err := ParseFieldRef(s)
		require.NoError(t, err)
		assert.Equal(t, s, ref.String())
	}
}
