// Package directive provides the YAML schema, parsing, and syntactic
// validation of the conversion directive file.
//
// The directive file is the authoritative, human-reviewed declaration of how
// enums convert into each other. Parsing is purely syntactic: it checks that
// every directive matches one of the declared forms and reports
// malformed_directive diagnostics otherwise, but it never resolves enum,
// variant, or field references; that is the resolver's job.
//
// # Schema Overview
//
//	version: "1"
//	enums:                        # optional inline shape declarations
//	  - name: Smaller
//	    variants:
//	      - name: Unit
//	      - name: Tuple
//	        positional: [int32, string]
//	      - name: Rename
//	        named:
//	          alpha: float64
//	          y: float64
//	conversions:
//	  - enum: Bigger              # the annotated enum
//	    direction: from           # from | into
//	    with: [Smaller]           # enum-level default participant set
//	    variants:
//	      - name: Unit
//	        map: true             # bare marker: defaults, identical name
//	      - name: Tuple
//	        map: Smaller          # enum-only: identical variant name
//	      - name: Struct
//	        map: [Smaller::Rename]
//	        fields:
//	          x: Smaller::Rename.alpha
//
// # Directive Forms
//
//   - Variant level: `map: true` (bare marker), a single "Enum" or
//     "Enum::Variant" reference, or a list of such references. A variant not
//     listed at all is unmapped and excluded from generation.
//   - Field level: `fields` maps a target-side field name (or position, for
//     positional variants) to one or more "Enum::Variant.field" or
//     "Enum::Variant.N" references. Absence means "same field name on both
//     sides".
package directive
