package directive

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringArray ---

// StringArray is a string slice that can be unmarshaled from a single string
// or a list of strings.
type StringArray []string

// UnmarshalYAML implements yaml.Unmarshaler for StringArray.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string

		err := node.Decode(&single)
		if err != nil {
			return err
		}

		if single != "" {
			*s = StringArray{single}
		} else {
			*s = StringArray{}
		}

		return nil

	case yaml.SequenceNode:
		var multi []string

		err := node.Decode(&multi)
		if err != nil {
			return err
		}

		*s = multi

		return nil

	default:
		return fmt.Errorf("expected string or list of strings, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringArray.
// Outputs a single string if length is 1, otherwise a list.
func (s StringArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- MapSpec ---

// UnmarshalYAML implements yaml.Unmarshaler for MapSpec.
// Accepts:
//   - true: bare marker
//   - "Enum" or "Enum::Variant": single reference
//   - a sequence of reference strings
func (m *MapSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err == nil {
			if !b {
				return errors.New("map: false is not a directive; omit the variant instead")
			}

			m.Bare = true

			return nil
		}

		var s string

		err := node.Decode(&s)
		if err != nil {
			return err
		}

		if s == "" {
			return errors.New("empty mapping reference")
		}

		m.Raw = []string{s}

		return nil

	case yaml.SequenceNode:
		var refs []string

		err := node.Decode(&refs)
		if err != nil {
			return err
		}

		if len(refs) == 0 {
			return errors.New("empty mapping reference list")
		}

		m.Raw = refs

		return nil

	default:
		return fmt.Errorf("expected true, a reference string, or a list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for MapSpec.
func (m MapSpec) MarshalYAML() (any, error) {
	if m.Bare {
		return true, nil
	}

	if len(m.Raw) == 1 {
		return m.Raw[0], nil
	}

	return m.Raw, nil
}

// --- FieldSpecs ---

// UnmarshalYAML implements yaml.Unmarshaler for FieldSpecs.
// The YAML form is a mapping from target field (name or position) to one
// reference string or a list of reference strings; declaration order is
// preserved.
func (f *FieldSpecs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of field overrides, got %v", node.Kind)
	}

	specs := make(FieldSpecs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var spec FieldSpec

		err := node.Content[i].Decode(&spec.Target)
		if err != nil {
			return fmt.Errorf("invalid field override key: %w", err)
		}

		err = node.Content[i+1].Decode(&spec.Raw)
		if err != nil {
			return fmt.Errorf("invalid field override for %s: %w", spec.Target, err)
		}

		specs = append(specs, spec)
	}

	*f = specs

	return nil
}

// MarshalYAML implements yaml.Marshaler for FieldSpecs.
func (f FieldSpecs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, spec := range f {
		var key, value yaml.Node

		err := key.Encode(spec.Target)
		if err != nil {
			return nil, err
		}

		err = value.Encode(spec.Raw)
		if err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &key, &value)
	}

	return node, nil
}

// --- FieldDecls ---

// UnmarshalYAML implements yaml.Unmarshaler for FieldDecls.
// The YAML form is a mapping from field name to type descriptor; declaration
// order is preserved.
func (f *FieldDecls) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping of field declarations, got %v", node.Kind)
	}

	decls := make(FieldDecls, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var decl FieldDecl

		err := node.Content[i].Decode(&decl.Name)
		if err != nil {
			return fmt.Errorf("invalid field name: %w", err)
		}

		err = node.Content[i+1].Decode(&decl.Type)
		if err != nil {
			return fmt.Errorf("invalid field type for %s: %w", decl.Name, err)
		}

		decls = append(decls, decl)
	}

	*f = decls

	return nil
}

// MarshalYAML implements yaml.Marshaler for FieldDecls.
func (f FieldDecls) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, decl := range f {
		var key, value yaml.Node

		err := key.Encode(decl.Name)
		if err != nil {
			return nil, err
		}

		err = value.Encode(decl.Type)
		if err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &key, &value)
	}

	return node, nil
}
