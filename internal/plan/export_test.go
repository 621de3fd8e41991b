package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldKey_String(t *testing.T) {
	assert.Equal(t, "title", NamedKey("title").String())
	assert.Equal(t, "0", IndexKey(0).String())
	assert.Equal(t, "7", IndexKey(7).String())
}

func TestExportYAML(t *testing.T) {
	res := &ResolvedConversions{
		Plans: []ConversionPlan{
			{
				SourceEnum: "Smaller",
				TargetEnum: "Bigger",
				Rules: []ConversionRule{
					{
						SourceEnum: "Smaller", SourceVariant: "Tuple",
						TargetEnum: "Bigger", TargetVariant: "Tuple",
						Fields: []FieldCorrespondence{
							{Target: IndexKey(0), Source: IndexKey(1)},
							{Target: NamedKey("title"), Source: NamedKey("name")},
						},
					},
				},
			},
		},
	}

	out, err := ExportYAML(res)
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "source: Smaller")
	assert.Contains(t, content, "target: Bigger")
	assert.Contains(t, content, "source_variant: Tuple")
	assert.Contains(t, content, `target: "0"`)
	assert.Contains(t, content, "source: name")
	assert.NotContains(t, content, "kind", "shape kinds are internal to generation")
}
