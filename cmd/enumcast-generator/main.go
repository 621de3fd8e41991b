// Package main provides the CLI entrypoint for enumcast-generator.
//
// enumcast-generator derives conversion functions between enum-like sealed
// unions:
//   - Loads union shapes either from YAML declarations or from compiled Go
//     packages
//   - Resolves conversion directives into total, unambiguous plans
//   - Reports structured diagnostics for everything that cannot be resolved
//   - Generates the conversion functions as formatted Go source
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"enumcast-generator/internal/diagnostic"
	"enumcast-generator/internal/directive"
	"enumcast-generator/internal/enums"
	"enumcast-generator/internal/gen"
	"enumcast-generator/internal/plan"
)

var Version = "dev"

const usage = `enumcast-generator derives conversion functions between sealed unions.

Usage:
  enumcast-generator check -f <directives.yaml> [-p <packages>]
  enumcast-generator plan  -f <directives.yaml> [-p <packages>]
  enumcast-generator gen   -f <directives.yaml> [-p <packages>] [-o <dir>] [-pkg <name>]

Commands:
  check     resolve the directives and report diagnostics
  plan      resolve the directives and print the conversion plans as YAML
  gen       resolve the directives and write the generated Go files

Flags:
  -f        path to the YAML directive file (required)
  -p        comma-separated Go package patterns to load union shapes from
  -o        output directory for generated files (gen only, default ./generated)
  -pkg      package name for generated files (gen only, default casters)
  -version  print the version and exit
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if os.Args[1] == "-version" || os.Args[1] == "--version" {
		fmt.Println("enumcast-generator", Version)
		return
	}

	command := os.Args[1]
	switch command {
	case "check", "plan", "gen":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	fileFlag := fs.String("f", "", "path to the YAML directive file")
	pkgsFlag := fs.String("p", "", "comma-separated Go package patterns")
	outFlag := fs.String("o", "./generated", "output directory for generated files")
	nameFlag := fs.String("pkg", "casters", "package name for generated files")

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	if *fileFlag == "" {
		fmt.Fprintln(os.Stderr, "missing required -f flag")
		os.Exit(2)
	}

	if err := run(command, *fileFlag, *pkgsFlag, *outFlag, *nameFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(command, file, pkgs, outDir, pkgName string) error {
	f, err := directive.LoadFile(file)
	if err != nil {
		return fmt.Errorf("loading directives: %w", err)
	}

	registry, enumPackages, err := buildRegistry(f, pkgs)
	if err != nil {
		return err
	}

	res := plan.NewResolver(registry, f).Resolve()
	printDiagnostics(&res.Diagnostics)

	if res.Diagnostics.HasErrors() {
		return fmt.Errorf("%d resolution errors", len(res.Diagnostics.Errors))
	}

	switch command {
	case "check":
		fmt.Printf("OK: %d conversion plans resolved\n", len(res.Plans))

	case "plan":
		out, err := plan.ExportYAML(res)
		if err != nil {
			return fmt.Errorf("exporting plans: %w", err)
		}

		fmt.Print(string(out))

	case "gen":
		config := gen.DefaultGeneratorConfig()
		config.PackageName = pkgName
		config.OutputDir = outDir
		config.EnumPackages = enumPackages

		files, err := gen.NewGenerator(config, registry).Generate(res)
		if err != nil {
			return err
		}

		if err := gen.WriteFiles(files, outDir); err != nil {
			return err
		}

		for _, gf := range files {
			fmt.Println("Generated:", gf.Filename)
		}
	}

	return nil
}

// buildRegistry combines inline enum declarations with shapes discovered in
// Go packages. Declaring the same enum both ways is an error. The returned
// map carries each Go-loaded enum's import path, as reported by the loaded
// package rather than the possibly relative -p pattern, so the generator can
// qualify its types.
func buildRegistry(f *directive.File, pkgs string) (*enums.Registry, map[string]string, error) {
	registry, err := directive.BuildRegistry(f)
	if err != nil {
		return nil, nil, fmt.Errorf("building registry: %w", err)
	}

	if pkgs == "" {
		return registry, nil, nil
	}

	loader := enums.NewLoader()

	loaded, err := loader.LoadPackages(splitPatterns(pkgs)...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading packages: %w", err)
	}

	for _, name := range loaded.Names() {
		shape, _ := loaded.Lookup(name)
		if err := registry.Add(shape); err != nil {
			return nil, nil, fmt.Errorf("merging loaded shapes: %w", err)
		}
	}

	return registry, loader.PkgPaths(), nil
}

func splitPatterns(pkgs string) []string {
	var out []string

	for _, p := range strings.Split(pkgs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// printDiagnostics writes every diagnostic to stderr, errors first.
func printDiagnostics(diags *diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		fmt.Fprintf(os.Stderr, "error[%s] %s: %s\n", d.Code, d.Context(), d.Message)
		for _, s := range d.Suggestions {
			fmt.Fprintf(os.Stderr, "\thint: %s\n", s)
		}
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(os.Stderr, "warning[%s] %s: %s\n", d.Code, d.Context(), d.Message)
	}
}
