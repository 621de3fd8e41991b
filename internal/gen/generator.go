package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"enumcast-generator/internal/common"
	"enumcast-generator/internal/enums"
	"enumcast-generator/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// EnumPackages maps enum names to the import paths of the packages
	// defining them. Enums without an entry are assumed to live in the
	// generated package itself.
	EnumPackages map[string]string
	// Converter renders per-field value conversions. Defaults to
	// CastConverter.
	Converter ValueConverter
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "casters",
		OutputDir:   "./generated",
		Converter:   CastConverter{},
	}
}

// ValueConverter renders the expression that converts one field value. The
// generator never inspects field types itself; whether a conversion between
// two type descriptors exists is the host's concern.
type ValueConverter interface {
	Convert(expr, fromType, toType string) string
}

// CastConverter emits a Go conversion expression when the declared types
// differ and passes the value through untouched when they match.
type CastConverter struct{}

// Convert implements ValueConverter.
func (CastConverter) Convert(expr, fromType, toType string) string {
	if fromType == toType || fromType == "" || toType == "" {
		return expr
	}

	return toType + "(" + expr + ")"
}

// Generator generates Go code from resolved conversion plans.
type Generator struct {
	config   GeneratorConfig
	registry *enums.Registry
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, registry *enums.Registry) *Generator {
	if config.Converter == nil {
		config.Converter = CastConverter{}
	}

	return &Generator{config: config, registry: registry}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "smaller_to_bigger.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders every plan into one Go file. It refuses to generate from
// a resolution that carries errors.
func (g *Generator) Generate(res *plan.ResolvedConversions) ([]GeneratedFile, error) {
	if !res.Diagnostics.IsValid() {
		return nil, fmt.Errorf("refusing to generate from %d resolution errors: %w",
			len(res.Diagnostics.Errors), res.Diagnostics.Error())
	}

	var files []GeneratedFile

	for i := range res.Plans {
		file, err := g.generatePlan(&res.Plans[i])
		if err != nil {
			return nil, fmt.Errorf("generating %s->%s: %w",
				res.Plans[i].SourceEnum, res.Plans[i].TargetEnum, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// generatePlan renders one conversion plan into a formatted Go file.
func (g *Generator) generatePlan(p *plan.ConversionPlan) (*GeneratedFile, error) {
	data, err := g.buildTemplateData(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := converterTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())

		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}

// templateData holds all data needed for the converter template.
type templateData struct {
	PackageName  string
	Filename     string
	Imports      []importSpec
	FunctionName string
	SourceType   string
	TargetType   string
	Arms         []armData
}

// importSpec is one import line of the generated file.
type importSpec struct {
	Alias string
	Path  string
}

// armData is one case of the generated type switch.
type armData struct {
	SourceVariant string
	TargetVariant string
	Unit          bool
	Assignments   []assignmentData
}

// assignmentData is one field assignment inside a constructed variant.
type assignmentData struct {
	TargetField string
	SourceExpr  string
}

// buildTemplateData constructs the template data from one plan.
func (g *Generator) buildTemplateData(p *plan.ConversionPlan) (*templateData, error) {
	src, ok := g.registry.Lookup(p.SourceEnum)
	if !ok {
		return nil, fmt.Errorf("source enum %s missing from registry", p.SourceEnum)
	}

	tgt, ok := g.registry.Lookup(p.TargetEnum)
	if !ok {
		return nil, fmt.Errorf("target enum %s missing from registry", p.TargetEnum)
	}

	data := &templateData{
		PackageName:  g.config.PackageName,
		Filename:     g.filename(p),
		FunctionName: p.FunctionName(),
		SourceType:   g.qualified(p.SourceEnum),
		TargetType:   g.qualified(p.TargetEnum),
	}

	imports := map[string]importSpec{
		"fmt": {Path: "fmt"},
	}
	g.addImport(imports, p.SourceEnum)
	g.addImport(imports, p.TargetEnum)

	for i := range p.Rules {
		arm, err := g.buildArm(&p.Rules[i], src, tgt)
		if err != nil {
			return nil, err
		}

		data.Arms = append(data.Arms, *arm)
	}

	for _, spec := range imports {
		data.Imports = append(data.Imports, spec)
	}

	sort.Slice(data.Imports, func(i, j int) bool {
		return data.Imports[i].Path < data.Imports[j].Path
	})

	return data, nil
}

// buildArm renders one conversion rule as a type-switch case.
func (g *Generator) buildArm(rule *plan.ConversionRule, src, tgt *enums.EnumShape) (*armData, error) {
	sv := src.Variant(rule.SourceVariant)
	tv := tgt.Variant(rule.TargetVariant)

	if sv == nil || tv == nil {
		return nil, fmt.Errorf("rule %s::%s -> %s::%s references unknown variants",
			rule.SourceEnum, rule.SourceVariant, rule.TargetEnum, rule.TargetVariant)
	}

	arm := &armData{
		SourceVariant: g.variantType(rule.SourceEnum, rule.SourceVariant),
		TargetVariant: g.variantType(rule.TargetEnum, rule.TargetVariant),
		Unit:          tv.Kind == enums.KindUnit,
	}

	for _, fc := range rule.Fields {
		srcField, err := fieldAt(sv, fc.Source)
		if err != nil {
			return nil, fmt.Errorf("rule %s::%s -> %s::%s: %w",
				rule.SourceEnum, rule.SourceVariant, rule.TargetEnum, rule.TargetVariant, err)
		}

		tgtField, err := fieldAt(tv, fc.Target)
		if err != nil {
			return nil, fmt.Errorf("rule %s::%s -> %s::%s: %w",
				rule.SourceEnum, rule.SourceVariant, rule.TargetEnum, rule.TargetVariant, err)
		}

		expr := "v." + goFieldName(sv, fc.Source)

		arm.Assignments = append(arm.Assignments, assignmentData{
			TargetField: goFieldName(tv, fc.Target),
			SourceExpr:  g.config.Converter.Convert(expr, srcField.Type, tgtField.Type),
		})
	}

	return arm, nil
}

// fieldAt resolves a field key against a variant shape.
func fieldAt(v *enums.VariantShape, key plan.FieldKey) (enums.FieldShape, error) {
	if key.IsNamed() {
		f, _, ok := v.Field(key.Name)
		if !ok {
			return enums.FieldShape{}, fmt.Errorf("variant %s has no field %s", v.Name, key.Name)
		}

		return f, nil
	}

	if key.Index >= v.Arity() {
		return enums.FieldShape{}, fmt.Errorf("variant %s has no position %d", v.Name, key.Index)
	}

	return v.Fields[key.Index], nil
}

// goFieldName returns the Go struct field carrying the keyed field: the
// exported field name for named variants, F<i> for positional ones.
func goFieldName(v *enums.VariantShape, key plan.FieldKey) string {
	if key.IsNamed() && v.Kind == enums.KindNamed {
		return exportName(key.Name)
	}

	return fmt.Sprintf("F%d", key.Index)
}

// exportName upper-cases the first rune so host-agnostic shape declarations
// still produce exported struct fields.
func exportName(name string) string {
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// variantType returns the (possibly package-qualified) Go type of one
// variant struct, following the Enum+Variant naming convention.
func (g *Generator) variantType(enum, variant string) string {
	name := enum + variant
	if pkgPath, ok := g.config.EnumPackages[enum]; ok {
		return common.PkgAlias(pkgPath) + "." + name
	}

	return name
}

// qualified returns the (possibly package-qualified) Go type of the union
// interface.
func (g *Generator) qualified(enum string) string {
	if pkgPath, ok := g.config.EnumPackages[enum]; ok {
		return common.PkgAlias(pkgPath) + "." + enum
	}

	return enum
}

// addImport records the import of the package defining an enum, if any.
func (g *Generator) addImport(imports map[string]importSpec, enum string) {
	pkgPath, ok := g.config.EnumPackages[enum]
	if !ok {
		return
	}

	if _, seen := imports[pkgPath]; seen {
		return
	}

	imports[pkgPath] = importSpec{Alias: common.PkgAlias(pkgPath), Path: pkgPath}
}

// filename derives the generated file name from the plan's enum pair.
func (g *Generator) filename(p *plan.ConversionPlan) string {
	return strings.ToLower(p.SourceEnum) + "_to_" + strings.ToLower(p.TargetEnum) + ".go"
}

var converterTemplate = template.Must(template.New("converter").Parse(`// Code generated by enumcast-generator. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
// {{.FunctionName}} converts a {{.SourceType}} value into the corresponding
// {{.TargetType}} value. The conversion is total: every {{.SourceType}}
// variant maps to exactly one {{.TargetType}} variant.
func {{.FunctionName}}(v {{.SourceType}}) {{.TargetType}} {
	switch v := v.(type) {
{{range .Arms}}	case {{.SourceVariant}}:
{{if .Unit}}		return {{.TargetVariant}}{}
{{else}}		return {{.TargetVariant}}{
{{range .Assignments}}			{{.TargetField}}: {{.SourceExpr}},
{{end}}		}
{{end}}{{end}}	default:
		panic(fmt.Sprintf("unexpected {{.SourceType}} variant %T", v))
	}
}
`))
