package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"enumcast-generator/internal/common"
)

// Diagnostic codes emitted by the resolver and the directive parser.
// All of them surface at generation time, never inside generated code.
const (
	CodeMalformedDirective      = "malformed_directive"
	CodeUnknownEnum             = "unknown_enum"
	CodeUnknownVariant          = "unknown_variant"
	CodeIncompatibleVariantKind = "incompatible_variant_kind"
	CodeUnresolvedField         = "unresolved_field"
	CodeAmbiguousMapping        = "ambiguous_mapping"
	CodeUnmappedSourceVariant   = "unmapped_source_variant"

	// CodeUnusedOverride is a warning: a field override references a
	// counterpart that is not a mapping candidate of its variant.
	CodeUnusedOverride = "unused_override"
)

// Diagnostics holds all diagnostic information from one resolution pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Enum is the enum the finding relates to.
	Enum string
	// Variant is the variant the finding relates to (if any).
	Variant string
	// Field is the field the finding relates to (if any).
	Field string
	// Message is the human-readable description.
	Message string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic, optionally with suggestions.
func (d *Diagnostics) AddError(code, enum, variant, field, message string, suggestions ...string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Enum:        enum,
		Variant:     variant,
		Field:       field,
		Message:     message,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, enum, variant, field, message string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Enum:     enum,
		Variant:  variant,
		Field:    field,
		Message:  message,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// Context returns the "Enum::Variant.field" location string of the diagnostic.
func (d Diagnostic) Context() string {
	var sb strings.Builder

	sb.WriteString(d.Enum)

	if d.Variant != "" {
		sb.WriteString("::")
		sb.WriteString(d.Variant)
	}

	if d.Field != "" {
		sb.WriteString(".")
		sb.WriteString(d.Field)
	}

	return sb.String()
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if ctx := d.Context(); ctx != "" {
		return ctx + ": " + msg
	}

	return msg
}
