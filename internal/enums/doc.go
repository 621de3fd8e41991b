// Package enums provides the normalized shape model of participating enums
// and the registry the resolver validates directives against.
//
// An enum is a sealed union: a fixed set of named variants, each of kind
// unit, positional, or named. Shapes come from two sources:
//   - inline declarations in the directive file (host-agnostic)
//   - discovery from Go packages via golang.org/x/tools/go/packages, where a
//     union is an exported interface with an unexported marker method and one
//     variant struct per alternative
//
// The registry stores only what it is given; cross-enum references are
// resolved (and fail) later, during plan resolution.
package enums
