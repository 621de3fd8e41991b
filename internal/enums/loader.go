package enums

import (
	"fmt"
	"go/types"
	"regexp"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// positionalFieldName matches the field naming scheme used for positional
// variants in the Go encoding (F0, F1, ...).
var positionalFieldName = regexp.MustCompile(`^F[0-9]+$`)

// Loader discovers sealed unions in Go packages and turns them into
// enum shapes.
//
// A union is recognized as an exported interface type whose method set is a
// single unexported niladic marker method (e.g., isPaymentEvent). Every
// exported struct type in the same package implementing that interface is one
// variant. An empty struct is a unit variant; a struct whose fields are all
// named F0..Fn is positional; anything else is named.
type Loader struct {
	registry *Registry

	// paths maps each discovered enum to the import path of the package
	// defining it, as reported by the loaded package itself. Patterns given
	// to LoadPackages may be relative; these paths never are.
	paths map[string]string
}

// NewLoader creates a new Loader with an empty registry.
func NewLoader() *Loader {
	return &Loader{
		registry: NewRegistry(),
		paths:    make(map[string]string),
	}
}

// LoadPackages loads the specified packages and registers every sealed union
// found in them. Patterns are standard Go package patterns.
func (l *Loader) LoadPackages(patterns ...string) (*Registry, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := l.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return l.registry, nil
}

// Registry returns the registry accumulated so far.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// PkgPaths returns a copy of the enum name to import path mapping for every
// enum discovered so far.
func (l *Loader) PkgPaths() map[string]string {
	paths := make(map[string]string, len(l.paths))
	for name, p := range l.paths {
		paths[name] = p
	}

	return paths
}

// processPackage scans one package for sealed unions and their variants.
func (l *Loader) processPackage(pkg *packages.Package) error {
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() {
			continue
		}

		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok || !isMarkerInterface(iface) {
			continue
		}

		shape, err := l.buildShape(pkg, obj, iface)
		if err != nil {
			return err
		}

		if err := l.registry.Add(shape); err != nil {
			return err
		}

		l.paths[shape.Name] = pkg.PkgPath
	}

	return nil
}

// isMarkerInterface reports whether iface is a sealed-union marker: exactly
// one unexported method taking and returning nothing.
func isMarkerInterface(iface *types.Interface) bool {
	if iface.NumMethods() != 1 {
		return false
	}

	m := iface.Method(0)
	if m.Exported() {
		return false
	}

	sig, ok := m.Type().(*types.Signature)
	if !ok {
		return false
	}

	return sig.Params().Len() == 0 && sig.Results().Len() == 0
}

// buildShape collects the variant structs implementing the union interface.
func (l *Loader) buildShape(pkg *packages.Package, enumObj *types.TypeName, iface *types.Interface) (*EnumShape, error) {
	shape := &EnumShape{Name: enumObj.Name()}
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !obj.Exported() || obj == enumObj {
			continue
		}

		st, ok := obj.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		if !types.Implements(obj.Type(), iface) &&
			!types.Implements(types.NewPointer(obj.Type()), iface) {
			continue
		}

		variant, err := buildVariant(pkg, enumObj.Name(), obj.Name(), st)
		if err != nil {
			return nil, err
		}

		shape.Variants = append(shape.Variants, *variant)
	}

	if len(shape.Variants) == 0 {
		return nil, fmt.Errorf("union %s has no variant structs in %s", enumObj.Name(), pkg.PkgPath)
	}

	return shape, nil
}

// buildVariant classifies one variant struct into a VariantShape.
func buildVariant(pkg *packages.Package, enumName, structName string, st *types.Struct) (*VariantShape, error) {
	variant := &VariantShape{Name: variantName(enumName, structName)}

	if st.NumFields() == 0 {
		variant.Kind = KindUnit
		return variant, nil
	}

	positional := true

	for i := 0; i < st.NumFields(); i++ {
		if !positionalFieldName.MatchString(st.Field(i).Name()) {
			positional = false
			break
		}
	}

	qualifier := func(other *types.Package) string {
		if other == pkg.Types {
			return ""
		}

		return other.Name()
	}

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() {
			return nil, fmt.Errorf("variant %s of union %s has unexported field %s", structName, enumName, f.Name())
		}

		fs := FieldShape{Type: types.TypeString(f.Type(), qualifier)}
		if !positional {
			fs.Name = f.Name()
		}

		variant.Fields = append(variant.Fields, fs)
	}

	if positional {
		variant.Kind = KindPositional
	} else {
		variant.Kind = KindNamed
	}

	return variant, nil
}

// variantName strips the union name prefix from the variant struct name, so
// PaymentEventRefund on union PaymentEvent becomes variant Refund.
func variantName(enumName, structName string) string {
	if trimmed := strings.TrimPrefix(structName, enumName); trimmed != "" && trimmed != structName {
		return trimmed
	}

	return structName
}
