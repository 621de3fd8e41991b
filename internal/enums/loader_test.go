package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadPackages(t *testing.T) {
	loader := NewLoader()
	registry, err := loader.LoadPackages("enumcast-generator/examples/events")
	require.NoError(t, err)
	require.NotNil(t, registry)

	assert.Equal(t, 2, registry.Len())

	_, ok := registry.Lookup("PaymentEvent")
	assert.True(t, ok, "PaymentEvent union should be discovered")

	_, ok = registry.Lookup("LedgerEvent")
	assert.True(t, ok, "LedgerEvent union should be discovered")
}

func TestLoader_VariantClassification(t *testing.T) {
	registry, err := NewLoader().LoadPackages("enumcast-generator/examples/events")
	require.NoError(t, err)

	payment, ok := registry.Lookup("PaymentEvent")
	require.True(t, ok)
	assert.Equal(t, []string{"Pending", "Refund", "Settled"}, payment.VariantNames(),
		"variant struct names follow package scope order")

	pending := payment.Variant("Pending")
	require.NotNil(t, pending)
	assert.Equal(t, KindUnit, pending.Kind)

	settled := payment.Variant("Settled")
	require.NotNil(t, settled)
	assert.Equal(t, KindNamed, settled.Kind)
	assert.Equal(t, "Amount", settled.Fields[0].Name)
	assert.Equal(t, "int64", settled.Fields[0].Type)
	assert.Equal(t, "Currency", settled.Fields[1].Name)

	refund := payment.Variant("Refund")
	require.NotNil(t, refund)
	assert.Equal(t, KindPositional, refund.Kind)
	assert.Equal(t, 2, refund.Arity())
	assert.Empty(t, refund.Fields[0].Name, "positional fields carry no names")
	assert.Equal(t, "int64", refund.Fields[0].Type)
	assert.Equal(t, "string", refund.Fields[1].Type)
}

func TestLoader_StripsUnionPrefix(t *testing.T) {
	registry, err := NewLoader().LoadPackages("enumcast-generator/examples/events")
	require.NoError(t, err)

	ledger, ok := registry.Lookup("LedgerEvent")
	require.True(t, ok)
	assert.NotNil(t, ledger.Variant("Refund"),
		"LedgerEventRefund should register as variant Refund")
	assert.Nil(t, ledger.Variant("LedgerEventRefund"))
}

func TestLoader_PkgPaths(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadPackages("enumcast-generator/examples/events")
	require.NoError(t, err)

	paths := loader.PkgPaths()
	assert.Equal(t, map[string]string{
		"PaymentEvent": "enumcast-generator/examples/events",
		"LedgerEvent":  "enumcast-generator/examples/events",
	}, paths)
}

func TestLoader_PkgPathsFromRelativePattern(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadPackages("./../../examples/events")
	require.NoError(t, err)

	paths := loader.PkgPaths()
	assert.Equal(t, "enumcast-generator/examples/events", paths["PaymentEvent"],
		"import paths come from the loaded package, never from the pattern")
	assert.NotContains(t, paths["PaymentEvent"], "./")
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "Refund", variantName("PaymentEvent", "PaymentEventRefund"))
	assert.Equal(t, "Standalone", variantName("PaymentEvent", "Standalone"))
	assert.Equal(t, "PaymentEvent", variantName("PaymentEvent", "PaymentEvent"),
		"full-prefix match keeps the struct name")
}
