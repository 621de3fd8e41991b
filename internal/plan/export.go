package plan

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders a FieldKey as its name or decimal position.
func (k FieldKey) MarshalYAML() (any, error) {
	return k.String(), nil
}

// exportDoc is the YAML envelope for exported plans.
type exportDoc struct {
	Plans []ConversionPlan `yaml:"plans"`
}

// ExportYAML serializes the resolved plans for human review, one rule per
// line group, in resolution order.
func ExportYAML(res *ResolvedConversions) ([]byte, error) {
	return yaml.Marshal(exportDoc{Plans: res.Plans})
}
