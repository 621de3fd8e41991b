package plan

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"enumcast-generator/internal/common"
	"enumcast-generator/internal/diagnostic"
	"enumcast-generator/internal/directive"
	"enumcast-generator/internal/enums"
)

// ResolvedConversions is the final output of one resolution pass: every plan
// that could be assembled plus every diagnostic found along the way. A plan
// is only safe to generate from when Diagnostics.IsValid() holds.
type ResolvedConversions struct {
	Plans       []ConversionPlan
	Diagnostics diagnostic.Diagnostics
}

// Resolver computes conversion plans from a shape registry and a directive
// file. It holds no hidden state; resolving the same inputs twice yields
// identical output.
type Resolver struct {
	registry *enums.Registry
	file     *directive.File
}

// NewResolver creates a new Resolver.
func NewResolver(registry *enums.Registry, file *directive.File) *Resolver {
	return &Resolver{registry: registry, file: file}
}

// Resolve runs syntactic validation followed by the full resolution pipeline.
// One failing rule never aborts the others; all diagnostics are collected.
func (r *Resolver) Resolve() *ResolvedConversions {
	out := &ResolvedConversions{}
	out.Diagnostics.Merge(*directive.Validate(r.file))

	for i := range r.file.Conversions {
		r.resolveConversion(&r.file.Conversions[i], out)
	}

	return out
}

// planState tracks one (source, target) pair during resolution.
type planState struct {
	other *enums.EnumShape
	plan  ConversionPlan

	// claims maps a claimed source-side variant name to its claim, in claim
	// order. The plan's rules are assembled by iterating this map, so rule
	// order is claim order.
	claims *linkedhashmap.Map

	// attempted records source-side variants for which a claim was made but
	// failed a local check, so totality does not double-report them.
	attempted map[string]struct{}
}

// claim records one successful claim of a source-side variant: the annotated
// variant that made it and the rule it produced.
type claim struct {
	claimedBy string
	rule      ConversionRule
}

func (r *Resolver) resolveConversion(conv *directive.Conversion, out *ResolvedConversions) {
	diags := &out.Diagnostics

	annotated, ok := r.registry.Lookup(conv.Enum)
	if !ok {
		diags.AddError(diagnostic.CodeUnknownEnum, conv.Enum, "", "",
			fmt.Sprintf("enum %s was not supplied to the shape registry", conv.Enum))
		return
	}

	states := make(map[string]*planState, len(conv.With))
	var order []string

	for _, name := range conv.With {
		other, ok := r.registry.Lookup(name)
		if !ok {
			diags.AddError(diagnostic.CodeUnknownEnum, name, "", "",
				fmt.Sprintf("enum %s in the with list of %s was not supplied to the shape registry", name, conv.Enum))
			continue
		}

		st := &planState{
			other:     other,
			claims:    linkedhashmap.New(),
			attempted: make(map[string]struct{}),
		}

		if conv.Direction == directive.DirectionFrom {
			st.plan = ConversionPlan{SourceEnum: name, TargetEnum: conv.Enum}
		} else {
			st.plan = ConversionPlan{SourceEnum: conv.Enum, TargetEnum: name}
		}

		states[name] = st
		order = append(order, name)
	}

	for i := range conv.Variants {
		vd := &conv.Variants[i]
		if vd.Map == nil {
			// Malformed; already reported by directive.Validate.
			continue
		}

		av := annotated.Variant(vd.Name)
		if av == nil {
			diags.AddError(diagnostic.CodeUnknownVariant, conv.Enum, vd.Name, "",
				fmt.Sprintf("enum %s has no variant %s", conv.Enum, vd.Name),
				"declared variants: "+strings.Join(annotated.VariantNames(), ", "))
			continue
		}

		candidates := expandCandidates(conv, vd)
		for _, c := range candidates {
			r.resolveCandidate(conv, vd, av, c, states, diags)
		}

		warnUnusedOverrides(conv, vd, candidates, diags)
	}

	for _, name := range order {
		st := states[name]
		r.checkTotality(conv, annotated, st, diags)

		for it := st.claims.Iterator(); it.Next(); {
			st.plan.Rules = append(st.plan.Rules, it.Value().(claim).rule)
		}

		out.Plans = append(out.Plans, st.plan)
	}
}

// expandCandidates turns one variant directive into its explicit candidate
// set. The bare marker expands across every enum in the with list; an
// enum-only reference defaults to the annotated variant's own name.
func expandCandidates(conv *directive.Conversion, vd *directive.VariantDirective) []directive.VariantRef {
	if vd.Map.Bare {
		out := make([]directive.VariantRef, 0, len(conv.With))
		for _, name := range conv.With {
			out = append(out, directive.VariantRef{Enum: name, Variant: vd.Name})
		}

		return out
	}

	out := make([]directive.VariantRef, 0, len(vd.Map.Refs))

	for _, ref := range vd.Map.Refs {
		if ref.Variant == "" {
			ref.Variant = vd.Name
		}

		out = append(out, ref)
	}

	return out
}

func (r *Resolver) resolveCandidate(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	av *enums.VariantShape,
	c directive.VariantRef,
	states map[string]*planState,
	diags *diagnostic.Diagnostics,
) {
	st, ok := states[c.Enum]
	if !ok {
		if !slices.Contains(conv.With, c.Enum) {
			diags.AddError(diagnostic.CodeUnknownEnum, c.Enum, c.Variant, "",
				fmt.Sprintf("enum %s is not listed in the with list of %s", c.Enum, conv.Enum))
		}
		// Otherwise the with entry itself was unknown and already reported.
		return
	}

	ov := st.other.Variant(c.Variant)
	if ov == nil {
		diags.AddError(diagnostic.CodeUnknownVariant, c.Enum, c.Variant, "",
			fmt.Sprintf("enum %s has no variant %s", c.Enum, c.Variant),
			"declared variants: "+strings.Join(st.other.VariantNames(), ", "))
		return
	}

	// The generated function's source side carries the uniqueness and
	// totality obligations.
	domainKey := c.Variant
	if conv.Direction == directive.DirectionInto {
		domainKey = vd.Name
	}

	st.attempted[domainKey] = struct{}{}

	fields, ok := resolveFieldCorrespondence(conv, vd, av, ov, c, diags)
	if !ok {
		return
	}

	if prev, claimed := st.claims.Get(domainKey); claimed {
		diags.AddError(diagnostic.CodeAmbiguousMapping, st.plan.SourceEnum, domainKey, "",
			fmt.Sprintf("%s is claimed by both %s and %s",
				enums.VariantRef(st.plan.SourceEnum, domainKey), prev.(claim).claimedBy, vd.Name))
		return
	}

	rule := ConversionRule{
		SourceEnum: st.plan.SourceEnum,
		TargetEnum: st.plan.TargetEnum,
		Fields:     fields,
	}

	if conv.Direction == directive.DirectionFrom {
		rule.SourceVariant = ov.Name
		rule.TargetVariant = av.Name
		rule.SourceKind = ov.Kind
		rule.TargetKind = av.Kind
	} else {
		rule.SourceVariant = av.Name
		rule.TargetVariant = ov.Name
		rule.SourceKind = av.Kind
		rule.TargetKind = ov.Kind
	}

	st.claims.Put(domainKey, claim{claimedBy: vd.Name, rule: rule})
}

// checkTotality verifies that every source-side variant of one plan was
// claimed exactly once. Variants whose claim failed a local check are not
// reported again here.
func (r *Resolver) checkTotality(
	conv *directive.Conversion,
	annotated *enums.EnumShape,
	st *planState,
	diags *diagnostic.Diagnostics,
) {
	domain := st.other
	if conv.Direction == directive.DirectionInto {
		domain = annotated
	}

	for _, v := range domain.Variants {
		if _, claimed := st.claims.Get(v.Name); claimed {
			continue
		}

		if _, tried := st.attempted[v.Name]; tried {
			continue
		}

		diags.AddError(diagnostic.CodeUnmappedSourceVariant, st.plan.SourceEnum, v.Name, "",
			fmt.Sprintf("no rule maps %s; %s would not be total",
				enums.VariantRef(st.plan.SourceEnum, v.Name), st.plan.FunctionName()))
	}
}

// warnUnusedOverrides reports field overrides whose referenced counterpart
// never appeared in the variant's candidate set.
func warnUnusedOverrides(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	candidates []directive.VariantRef,
	diags *diagnostic.Diagnostics,
) {
	for _, spec := range vd.Fields {
		for _, ref := range spec.Refs {
			used := slices.ContainsFunc(candidates, func(c directive.VariantRef) bool {
				return c.Enum == ref.Enum && c.Variant == ref.Variant
			})

			if !used {
				diags.AddWarning(diagnostic.CodeUnusedOverride, conv.Enum, vd.Name, spec.Target,
					fmt.Sprintf("override %s does not match any mapping candidate of this variant", ref))
			}
		}
	}
}

// resolveFieldCorrespondence computes the field correspondence of one
// candidate pair, or reports why it cannot exist. The target side drives the
// correspondence: every target field needs exactly one source.
func resolveFieldCorrespondence(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	av, ov *enums.VariantShape,
	c directive.VariantRef,
	diags *diagnostic.Diagnostics,
) ([]FieldCorrespondence, bool) {
	tgtVar, srcVar := av, ov
	srcEnum, tgtEnum := c.Enum, conv.Enum

	if conv.Direction == directive.DirectionInto {
		tgtVar, srcVar = ov, av
		srcEnum, tgtEnum = conv.Enum, c.Enum
	}

	if tgtVar.Kind == enums.KindUnit && srcVar.Kind == enums.KindUnit {
		ok := true

		for i := range vd.Fields {
			spec := &vd.Fields[i]
			if !refersToCandidate(spec.Refs, c) {
				continue
			}

			diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, spec.Target,
				fmt.Sprintf("unit variant %s carries no fields to override",
					enums.VariantRef(conv.Enum, vd.Name)))

			ok = false
		}

		return nil, ok
	}

	if tgtVar.Kind == enums.KindUnit || srcVar.Kind == enums.KindUnit {
		diags.AddError(diagnostic.CodeIncompatibleVariantKind, conv.Enum, vd.Name, "",
			fmt.Sprintf("cannot map %s variant %s to %s variant %s",
				srcVar.Kind, enums.VariantRef(srcEnum, srcVar.Name),
				tgtVar.Kind, enums.VariantRef(tgtEnum, tgtVar.Name)))
		return nil, false
	}

	overrides, hasOverrides, ok := collectOverrides(conv, vd, av, ov, c, diags)
	if !ok {
		return nil, false
	}

	if tgtVar.Kind != srcVar.Kind && !hasOverrides {
		diags.AddError(diagnostic.CodeIncompatibleVariantKind, conv.Enum, vd.Name, "",
			fmt.Sprintf("cannot map %s variant %s to %s variant %s without explicit field mappings",
				srcVar.Kind, enums.VariantRef(srcEnum, srcVar.Name),
				tgtVar.Kind, enums.VariantRef(tgtEnum, tgtVar.Name)))
		return nil, false
	}

	if tgtVar.Kind == enums.KindPositional && srcVar.Kind == enums.KindPositional &&
		!hasOverrides && tgtVar.Arity() != srcVar.Arity() {
		diags.AddError(diagnostic.CodeIncompatibleVariantKind, conv.Enum, vd.Name, "",
			fmt.Sprintf("positional variants %s and %s have different arities (%d vs %d)",
				enums.VariantRef(srcEnum, srcVar.Name), enums.VariantRef(tgtEnum, tgtVar.Name),
				srcVar.Arity(), tgtVar.Arity()))
		return nil, false
	}

	crossKind := tgtVar.Kind != srcVar.Kind
	fields := make([]FieldCorrespondence, 0, len(tgtVar.Fields))
	failed := false

	for i, f := range tgtVar.Fields {
		tgtKey := IndexKey(i)
		if tgtVar.Kind == enums.KindNamed {
			tgtKey = NamedKey(f.Name)
		}

		if srcKey, found := overrides[tgtKey]; found {
			fields = append(fields, FieldCorrespondence{Target: tgtKey, Source: srcKey})
			continue
		}

		if crossKind {
			diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, tgtKey.String(),
				fmt.Sprintf("mapping a %s variant from a %s variant requires an explicit mapping for every field, none found for %q",
					tgtVar.Kind, srcVar.Kind, tgtKey))

			failed = true

			continue
		}

		if tgtVar.Kind == enums.KindNamed {
			if _, _, found := srcVar.Field(f.Name); !found {
				diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, f.Name,
					fmt.Sprintf("%s has no field %s and no override names one",
						enums.VariantRef(srcEnum, srcVar.Name), f.Name))

				failed = true

				continue
			}

			fields = append(fields, FieldCorrespondence{Target: tgtKey, Source: NamedKey(f.Name)})

			continue
		}

		// Positional to positional with overrides elsewhere: unmapped
		// positions default to identity.
		if i >= srcVar.Arity() {
			diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, tgtKey.String(),
				fmt.Sprintf("position %d exceeds the arity of %s", i, enums.VariantRef(srcEnum, srcVar.Name)))

			failed = true

			continue
		}

		fields = append(fields, FieldCorrespondence{Target: tgtKey, Source: IndexKey(i)})
	}

	if failed {
		return nil, false
	}

	return fields, true
}

// refersToCandidate reports whether any of the refs addresses the candidate
// pair.
func refersToCandidate(refs []directive.FieldRef, c directive.VariantRef) bool {
	return slices.ContainsFunc(refs, func(ref directive.FieldRef) bool {
		return ref.Enum == c.Enum && ref.Variant == c.Variant
	})
}

// collectOverrides gathers the field overrides relevant to one candidate
// pair into a target-key to source-key map. Overrides are declared on the
// annotated side; for the into direction the orientation is reversed.
func collectOverrides(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	av, ov *enums.VariantShape,
	c directive.VariantRef,
	diags *diagnostic.Diagnostics,
) (map[FieldKey]FieldKey, bool, bool) {
	overrides := make(map[FieldKey]FieldKey)
	hasOverrides := false
	valid := true

	for i := range vd.Fields {
		spec := &vd.Fields[i]

		relevant := make([]directive.FieldRef, 0, 1)
		for _, ref := range spec.Refs {
			if ref.Enum == c.Enum && ref.Variant == c.Variant {
				relevant = append(relevant, ref)
			}
		}

		if common.IsEmpty(relevant) {
			continue
		}

		hasOverrides = true

		if common.IsMultiple(relevant) {
			diags.AddError(diagnostic.CodeAmbiguousMapping, conv.Enum, vd.Name, spec.Target,
				fmt.Sprintf("multiple overrides for %s reference %s",
					spec.Target, enums.VariantRef(c.Enum, c.Variant)))

			valid = false

			continue
		}

		annKey, ok := annotatedFieldKey(conv, vd, av, spec, diags)
		if !ok {
			valid = false
			continue
		}

		otherKey, ok := counterpartFieldKey(conv, vd, ov, c, spec, relevant[0], diags)
		if !ok {
			valid = false
			continue
		}

		tgtKey, srcKey := annKey, otherKey
		if conv.Direction == directive.DirectionInto {
			tgtKey, srcKey = otherKey, annKey
		}

		if _, dup := overrides[tgtKey]; dup {
			diags.AddError(diagnostic.CodeAmbiguousMapping, conv.Enum, vd.Name, spec.Target,
				fmt.Sprintf("field %q of %s is supplied by more than one override",
					tgtKey, enums.VariantRef(c.Enum, c.Variant)))

			valid = false

			continue
		}

		overrides[tgtKey] = srcKey
	}

	return overrides, hasOverrides, valid
}

// annotatedFieldKey resolves a spec's target key against the annotated
// variant's own shape.
func annotatedFieldKey(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	av *enums.VariantShape,
	spec *directive.FieldSpec,
	diags *diagnostic.Diagnostics,
) (FieldKey, bool) {
	switch av.Kind {
	case enums.KindNamed:
		if _, _, found := av.Field(spec.Target); found {
			return NamedKey(spec.Target), true
		}

	case enums.KindPositional:
		if idx, err := strconv.Atoi(spec.Target); err == nil && idx >= 0 && idx < av.Arity() {
			return IndexKey(idx), true
		}
	}

	diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, spec.Target,
		fmt.Sprintf("%s variant %s has no field %q",
			av.Kind, enums.VariantRef(conv.Enum, vd.Name), spec.Target))

	return FieldKey{}, false
}

// counterpartFieldKey resolves an override reference against the candidate
// variant's shape.
func counterpartFieldKey(
	conv *directive.Conversion,
	vd *directive.VariantDirective,
	ov *enums.VariantShape,
	c directive.VariantRef,
	spec *directive.FieldSpec,
	ref directive.FieldRef,
	diags *diagnostic.Diagnostics,
) (FieldKey, bool) {
	if ref.Positional {
		if ov.Kind == enums.KindPositional && ref.FieldIndex < ov.Arity() {
			return IndexKey(ref.FieldIndex), true
		}

		diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, spec.Target,
			fmt.Sprintf("%s variant %s has no position %d",
				ov.Kind, enums.VariantRef(c.Enum, c.Variant), ref.FieldIndex))

		return FieldKey{}, false
	}

	if ov.Kind == enums.KindNamed {
		if _, _, found := ov.Field(ref.FieldName); found {
			return NamedKey(ref.FieldName), true
		}
	}

	diags.AddError(diagnostic.CodeUnresolvedField, conv.Enum, vd.Name, spec.Target,
		fmt.Sprintf("%s variant %s has no field %s",
			ov.Kind, enums.VariantRef(c.Enum, c.Variant), ref.FieldName))

	return FieldKey{}, false
}
