package directive

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"enumcast-generator/internal/common"
	"enumcast-generator/internal/diagnostic"
	"enumcast-generator/internal/enums"
)

// LoadFile loads and parses a YAML directive file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directive file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File. Only YAML-level failures are reported
// here; directive-form problems are collected by Validate.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directive YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Conversions {
		if f.Conversions[i].Direction == "" {
			f.Conversions[i].Direction = DirectionFrom
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal directives: %w", err)
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write directive file %s: %w", path, err)
	}

	return nil
}

// Validate performs the syntactic validation of every directive and parses
// the reference strings into their Refs fields. It checks directive forms
// only; whether referenced enums, variants, or fields exist is checked
// during resolution.
//
// All findings are collected; one malformed directive does not hide another.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeMalformedDirective, "", "", "", "directive file is nil")
		return res
	}

	for i := range f.Conversions {
		validateConversion(res, &f.Conversions[i])
	}

	return res
}

func validateConversion(res *diagnostic.Diagnostics, conv *Conversion) {
	if !IsIdent(conv.Enum) {
		res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, "", "",
			fmt.Sprintf("invalid enum name %q", conv.Enum))
		return
	}

	if !conv.Direction.IsValid() {
		res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, "", "",
			fmt.Sprintf("unknown direction %q (expected %q or %q)", conv.Direction, DirectionFrom, DirectionInto))
	}

	seenWith := make(map[string]struct{}, len(conv.With))

	for _, name := range conv.With {
		if !IsIdent(name) {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, "", "",
				fmt.Sprintf("invalid enum name %q in with list", name))
			continue
		}

		if _, ok := seenWith[name]; ok {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, "", "",
				fmt.Sprintf("enum %s listed twice in with list", name))
		}

		seenWith[name] = struct{}{}
	}

	seenVariants := make(map[string]struct{}, len(conv.Variants))

	for i := range conv.Variants {
		vd := &conv.Variants[i]

		if !IsIdent(vd.Name) {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, "",
				fmt.Sprintf("invalid variant name %q", vd.Name))
			continue
		}

		if _, ok := seenVariants[vd.Name]; ok {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, "",
				"variant listed twice in this conversion")
			continue
		}

		seenVariants[vd.Name] = struct{}{}

		validateVariantDirective(res, conv, vd)
	}
}

func validateVariantDirective(res *diagnostic.Diagnostics, conv *Conversion, vd *VariantDirective) {
	if vd.Map == nil {
		res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, "",
			"variant directive has no map entry; omit the variant to leave it unmapped")
		return
	}

	if vd.Map.Bare && len(conv.With) == 0 {
		res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, "",
			"bare marker requires an enum-level with list to default against")
	}

	vd.Map.Refs = vd.Map.Refs[:0]

	for _, raw := range vd.Map.Raw {
		ref, err := ParseVariantRef(raw)
		if err != nil {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, "", err.Error())
			continue
		}

		vd.Map.Refs = append(vd.Map.Refs, ref)
	}

	for i := range vd.Fields {
		spec := &vd.Fields[i]

		if !validFieldTarget(spec.Target) {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, spec.Target,
				fmt.Sprintf("invalid field override key %q (expected a field name or position)", spec.Target))
			continue
		}

		if common.IsEmpty(spec.Raw) {
			res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, spec.Target,
				"field override has no references")
			continue
		}

		spec.Refs = spec.Refs[:0]

		for _, raw := range spec.Raw {
			ref, err := ParseFieldRef(raw)
			if err != nil {
				res.AddError(diagnostic.CodeMalformedDirective, conv.Enum, vd.Name, spec.Target, err.Error())
				continue
			}

			spec.Refs = append(spec.Refs, ref)
		}
	}
}

// validFieldTarget accepts a field name or a non-negative decimal position.
func validFieldTarget(s string) bool {
	if IsIdent(s) {
		return true
	}

	n, err := strconv.Atoi(s)

	return err == nil && n >= 0
}

// BuildRegistry constructs an enum shape registry from the file's inline
// enum declarations.
func BuildRegistry(f *File) (*enums.Registry, error) {
	registry := enums.NewRegistry()

	for i := range f.Enums {
		shape, err := buildShape(&f.Enums[i])
		if err != nil {
			return nil, err
		}

		if err := registry.Add(shape); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func buildShape(decl *EnumDecl) (*enums.EnumShape, error) {
	shape := &enums.EnumShape{Name: decl.Name}

	for _, vd := range decl.Variants {
		variant, err := buildVariantShape(decl.Name, &vd)
		if err != nil {
			return nil, err
		}

		shape.Variants = append(shape.Variants, *variant)
	}

	return shape, nil
}

func buildVariantShape(enumName string, decl *VariantDecl) (*enums.VariantShape, error) {
	if len(decl.Positional) > 0 && len(decl.Named) > 0 {
		return nil, fmt.Errorf("variant %s::%s declares both positional and named fields", enumName, decl.Name)
	}

	variant := &enums.VariantShape{Name: decl.Name}

	switch {
	case len(decl.Positional) > 0:
		variant.Kind = enums.KindPositional
		for _, typ := range decl.Positional {
			variant.Fields = append(variant.Fields, enums.FieldShape{Type: typ})
		}

	case len(decl.Named) > 0:
		variant.Kind = enums.KindNamed
		for _, fd := range decl.Named {
			variant.Fields = append(variant.Fields, enums.FieldShape{Name: fd.Name, Type: fd.Type})
		}

	default:
		variant.Kind = enums.KindUnit
	}

	return variant, nil
}
