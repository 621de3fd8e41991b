// Package gen renders resolved conversion plans into Go source.
//
// Generation approach uses text/template + go/format for readable output.
// One file per (source, target) enum pair: a total conversion function that
// type-switches over the source union's variant structs and constructs the
// matching target variant, converting each field through a pluggable
// ValueConverter.
//
// This is a thin boundary layer: everything interesting happened during
// resolution, and a plan that reached this package cannot fail semantically.
package gen
