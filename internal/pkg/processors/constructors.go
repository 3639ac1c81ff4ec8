package processors

import (
	"sort"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/common"
)

// constructor is the discriminant of a pattern's head, used to partition
// matrix rows: a variant index, a literal, a disjoint interval, a slice
// length bucket, or the single constructor of a product/reference type.
type constructor interface {
	_constructor()
}

type ctorVariant struct {
	option int
}

func (ctorVariant) _constructor() {}

// ctorSingle is the only constructor of tuples and references.
type ctorSingle struct{}

func (ctorSingle) _constructor() {}

type ctorLiteral struct {
	value ast.ConstValue
}

func (ctorLiteral) _constructor() {}

type ctorRange struct {
	lo uint64
	hi uint64
}

func (ctorRange) _constructor() {}

// ctorSlice is a length bucket: exactly length elements when open is
// false, length or more when open is true. After splitting, matching
// treats both as exact arity-length buckets; open survives only so
// witnesses render with a rest marker.
type ctorSlice struct {
	length int
	open   bool
}

func (ctorSlice) _constructor() {}

// ctorMissing stands in for the unnameable extra constructor of remote
// non-exhaustive enums and of open-ended domains; witnesses render it
// as a wildcard.
type ctorMissing struct{}

func (ctorMissing) _constructor() {}

// headConstructor extracts the constructor of a pattern head. Wildcards
// have none; or-patterns are fanned out by the callers before asking.
func headConstructor(p Pattern) (constructor, bool) {
	switch e := p.(type) {
	case PatternAnything:
		return nil, false
	case PatternVariant:
		return ctorVariant{option: e.Option}, true
	case PatternLeaf:
		return ctorSingle{}, true
	case PatternDeref:
		return ctorSingle{}, true
	case PatternLiteral:
		return ctorLiteral{value: e.Value}, true
	case PatternRange:
		return ctorRange{lo: e.Lo, hi: e.Hi}, true
	case PatternSlice:
		if e.HasRest {
			return ctorSlice{length: len(e.Prefix) + len(e.Suffix), open: true}, true
		}
		return ctorSlice{length: len(e.Prefix)}, true
	}
	panic(common.SystemError{Message: "invalid case"})
}

// headConstructors collects every constructor present in the matrix's
// first column, looking through or-pattern alternatives.
func headConstructors(matrix [][]Pattern) []constructor {
	var out []constructor
	var add func(p Pattern)
	add = func(p Pattern) {
		if or, ok := p.(PatternOr); ok {
			for _, alt := range or.Alts {
				add(alt)
			}
			return
		}
		if c, ok := headConstructor(p); ok {
			out = append(out, c)
		}
	}
	for _, row := range matrix {
		add(row[0])
	}
	return out
}

// ctorSubTypes returns the column types uncovered by stripping one
// constructor layer off the given type.
func ctorSubTypes(ty typed.Type, c constructor) []typed.Type {
	switch e := c.(type) {
	case ctorVariant:
		data, ok := ty.(*typed.TData)
		if !ok {
			panic(common.SystemError{Message: "variant constructor on non-data type"})
		}
		return data.Options[e.option].Values
	case ctorSingle:
		switch t := ty.(type) {
		case *typed.TTuple:
			return t.Items
		case *typed.TRef:
			return []typed.Type{t.Nested}
		}
		panic(common.SystemError{Message: "single constructor on non-product type"})
	case ctorLiteral, ctorRange, ctorMissing:
		return nil
	case ctorSlice:
		item := sliceItemType(ty)
		return common.Repeat(item, e.length)
	}
	panic(common.SystemError{Message: "invalid case"})
}

func ctorArity(ty typed.Type, c constructor) int {
	return len(ctorSubTypes(ty, c))
}

func sliceItemType(ty typed.Type) typed.Type {
	switch t := ty.(type) {
	case *typed.TArray:
		return t.Item
	case *typed.TSlice:
		return t.Item
	}
	panic(common.SystemError{Message: "slice constructor on non-sequence type"})
}

// allConstructors derives the relevant constructor set of a type. The
// second result reports an open-ended set: either the type's constructors
// cannot be enumerated (strings, floats, opaque types) or the enum is
// non-exhaustive and remote, which adds an implicit unnameable extra
// constructor.
func (ctx *matchContext) allConstructors(ty typed.Type) ([]constructor, bool) {
	switch e := ty.(type) {
	case *typed.TData:
		var ctors []constructor
		for i, option := range e.Options {
			if ctx.cfg.ExhaustivePatterns && variantUninhabited(ctx, option) {
				continue
			}
			ctors = append(ctors, ctorVariant{option: i})
		}
		open := e.NonExhaustive && e.Name.Module() != ctx.module
		return ctors, open
	case *typed.TBool:
		return []constructor{
			ctorLiteral{value: ast.CBool{Value: false}},
			ctorLiteral{value: ast.CBool{Value: true}},
		}, false
	case *typed.TNumber, *typed.TChar:
		lo, hi, _ := numericDomain(ty)
		return []constructor{ctorRange{lo: lo, hi: hi}}, false
	case *typed.TTuple, *typed.TRef:
		return []constructor{ctorSingle{}}, false
	case *typed.TArray:
		return []constructor{ctorSlice{length: e.Len}}, false
	case *typed.TSlice:
		return []constructor{ctorSlice{length: 0, open: true}}, false
	case *typed.TNever:
		return nil, false
	case *typed.TString, *typed.TFloat, *typed.TOpaque:
		return nil, true
	}
	panic(common.SystemError{Message: "invalid case"})
}

func variantUninhabited(ctx *matchContext, option typed.DataOption) bool {
	return common.Any(func(t typed.Type) bool {
		return typed.IsUninhabited(t, ctx.module, ctx.cfg.ExhaustivePatterns)
	}, option.Values)
}

// splitConstructor decomposes a constructor against the head constructors
// of the matrix so that every produced piece is, for each head, either
// subsumed by it or disjoint from it. Ranges split into maximal disjoint
// sub-intervals; variable-length slices split into length buckets.
func splitConstructor(c constructor, heads []constructor) []constructor {
	switch e := c.(type) {
	case ctorRange:
		return splitRange(e, heads)
	case ctorSlice:
		if e.open {
			return splitSlice(e, heads)
		}
	}
	return []constructor{c}
}

func splitRange(c ctorRange, heads []constructor) []constructor {
	points := []uint64{c.lo}
	for _, h := range heads {
		r, ok := h.(ctorRange)
		if !ok {
			continue
		}
		if r.hi < c.lo || r.lo > c.hi {
			continue
		}
		if r.lo > c.lo {
			points = append(points, r.lo)
		}
		if r.hi < c.hi {
			points = append(points, r.hi+1)
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	var out []constructor
	for i, lo := range points {
		if i > 0 && lo == points[i-1] {
			continue
		}
		hi := c.hi
		for _, next := range points[i+1:] {
			if next != lo {
				hi = next - 1
				break
			}
		}
		out = append(out, ctorRange{lo: lo, hi: hi})
	}
	return out
}

// splitSlice buckets a variable-length slice constructor: one exact bucket
// per length below the bound, plus a single open bucket at the bound. The
// bound exceeds every length mentioned in the matrix heads, so for values
// at or beyond it coverage no longer depends on the exact length.
func splitSlice(c ctorSlice, heads []constructor) []constructor {
	bound := common.Fold(func(h constructor, acc int) int {
		if s, ok := h.(ctorSlice); ok && s.length+1 > acc {
			return s.length + 1
		}
		return acc
	}, c.length, heads)

	var out []constructor
	for l := c.length; l < bound; l++ {
		out = append(out, ctorSlice{length: l})
	}
	out = append(out, ctorSlice{length: bound, open: true})
	return out
}

// coversRange requires the piece to be fully inside the row's interval;
// pieces are pre-split so partial overlap cannot happen.
func coversRange(piece ctorRange, row ctorRange) bool {
	return row.lo <= piece.lo && piece.hi <= row.hi
}

// specializeRow strips the constructor layer off a row. A row can vanish
// (head constructor disagrees), stay single, or fan out through or-pattern
// alternatives.
func specializeRow(ty typed.Type, c constructor, row []Pattern) [][]Pattern {
	if len(row) == 0 {
		panic(common.SystemError{Message: "empty rows should not get specialized"})
	}
	rest := row[1:]
	switch head := row[0].(type) {
	case PatternAnything:
		return [][]Pattern{append(wildcardsFor(ctorSubTypes(ty, c)), rest...)}
	case PatternOr:
		var out [][]Pattern
		for _, alt := range head.Alts {
			out = append(out, specializeRow(ty, c, append([]Pattern{alt}, rest...))...)
		}
		return out
	case PatternVariant:
		v, ok := c.(ctorVariant)
		if !ok {
			panic(common.SystemError{Message: "variant pattern against non-variant constructor"})
		}
		if head.Option != v.option {
			return nil
		}
		return [][]Pattern{append(append([]Pattern{}, head.Args...), rest...)}
	case PatternLeaf:
		return [][]Pattern{append(append([]Pattern{}, head.Args...), rest...)}
	case PatternDeref:
		return [][]Pattern{append([]Pattern{head.Nested}, rest...)}
	case PatternLiteral:
		l, ok := c.(ctorLiteral)
		if !ok {
			panic(common.SystemError{Message: "literal pattern against non-literal constructor"})
		}
		if !head.Value.EqualsTo(l.value) {
			return nil
		}
		return [][]Pattern{rest}
	case PatternRange:
		r, ok := c.(ctorRange)
		if !ok {
			panic(common.SystemError{Message: "range pattern against non-range constructor"})
		}
		if !coversRange(r, ctorRange{lo: head.Lo, hi: head.Hi}) {
			return nil
		}
		return [][]Pattern{rest}
	case PatternSlice:
		s, ok := c.(ctorSlice)
		if !ok {
			panic(common.SystemError{Message: "slice pattern against non-slice constructor"})
		}
		total := len(head.Prefix) + len(head.Suffix)
		if head.HasRest {
			if total > s.length {
				return nil
			}
			item := sliceItemType(ty)
			middle := common.Repeat(Pattern(PatternAnything{Ty: item}), s.length-total)
			specialized := append(append([]Pattern{}, head.Prefix...), middle...)
			specialized = append(specialized, head.Suffix...)
			return [][]Pattern{append(specialized, rest...)}
		}
		if len(head.Prefix) != s.length {
			return nil
		}
		return [][]Pattern{append(append([]Pattern{}, head.Prefix...), rest...)}
	}
	panic(common.SystemError{Message: "invalid case"})
}

func specializeMatrix(ty typed.Type, c constructor, matrix [][]Pattern) [][]Pattern {
	return common.ConcatMap(func(row []Pattern) [][]Pattern {
		return specializeRow(ty, c, row)
	}, matrix)
}

// specializeMatrixByAnything keeps only rows whose head matches anything,
// dropping the head column.
func specializeMatrixByAnything(matrix [][]Pattern) [][]Pattern {
	return common.ConcatMap(specializeRowByAnything, matrix)
}

func specializeRowByAnything(row []Pattern) [][]Pattern {
	if len(row) == 0 {
		return nil
	}
	switch head := row[0].(type) {
	case PatternAnything:
		return [][]Pattern{row[1:]}
	case PatternOr:
		var out [][]Pattern
		for _, alt := range head.Alts {
			out = append(out, specializeRowByAnything(append([]Pattern{alt}, row[1:]...))...)
		}
		return out
	}
	return nil
}

// applyConstructor re-wraps sub-witnesses into a witness with the given
// constructor at its head.
func applyConstructor(ty typed.Type, c constructor, args []Pattern) Pattern {
	switch e := c.(type) {
	case ctorVariant:
		data, ok := ty.(*typed.TData)
		if !ok {
			panic(common.SystemError{Message: "variant constructor on non-data type"})
		}
		return PatternVariant{Ty: data, Option: e.option, Args: args}
	case ctorSingle:
		if ref, ok := ty.(*typed.TRef); ok {
			return PatternDeref{Ty: ref, Nested: args[0]}
		}
		return PatternLeaf{Ty: ty, Args: args}
	case ctorLiteral:
		return PatternLiteral{Ty: ty, Value: e.value}
	case ctorRange:
		return PatternRange{Ty: ty, Lo: e.lo, Hi: e.hi}
	case ctorSlice:
		return PatternSlice{Ty: ty, Prefix: args, HasRest: e.open}
	case ctorMissing:
		return PatternAnything{Ty: ty}
	}
	panic(common.SystemError{Message: "invalid case"})
}

// missingConstructors computes which constructors of the type never appear
// in the head column. For ranges and slices the residual gaps are computed
// instead of enumerating the domain.
func (ctx *matchContext) missingConstructors(ty typed.Type, used []constructor) ([]constructor, bool) {
	all, open := ctx.allConstructors(ty)

	var missing []constructor
	for _, c := range all {
		switch e := c.(type) {
		case ctorVariant:
			if !common.Any(func(u constructor) bool {
				v, ok := u.(ctorVariant)
				return ok && v.option == e.option
			}, used) {
				missing = append(missing, c)
			}
		case ctorSingle:
			if !common.Any(func(u constructor) bool {
				_, ok := u.(ctorSingle)
				return ok
			}, used) {
				missing = append(missing, c)
			}
		case ctorLiteral:
			if !common.Any(func(u constructor) bool {
				l, ok := u.(ctorLiteral)
				return ok && l.value.EqualsTo(e.value)
			}, used) {
				missing = append(missing, c)
			}
		case ctorRange:
			missing = append(missing, missingRanges(e, used)...)
		case ctorSlice:
			missing = append(missing, missingSliceLengths(e, used)...)
		}
	}
	return missing, open
}

// missingRanges subtracts every used interval from the domain and returns
// the gaps, in ascending order.
func missingRanges(domain ctorRange, used []constructor) []constructor {
	gaps := []ctorRange{domain}
	for _, u := range used {
		r, ok := u.(ctorRange)
		if !ok {
			continue
		}
		var next []ctorRange
		for _, g := range gaps {
			if r.hi < g.lo || r.lo > g.hi {
				next = append(next, g)
				continue
			}
			if r.lo > g.lo {
				next = append(next, ctorRange{lo: g.lo, hi: r.lo - 1})
			}
			if r.hi < g.hi {
				next = append(next, ctorRange{lo: r.hi + 1, hi: g.hi})
			}
		}
		gaps = next
	}
	return common.Map(func(g ctorRange) constructor { return g }, gaps)
}

// missingSliceLengths finds length buckets no head pattern can reach: with
// a variable-length head of minimal total t, every length at or above t is
// reachable, so gaps live below t; without one, everything above the
// largest fixed length is uncovered as well.
func missingSliceLengths(domain ctorSlice, used []constructor) []constructor {
	fixed := map[int]bool{}
	minOpen := -1
	maxFixed := -1
	for _, u := range used {
		s, ok := u.(ctorSlice)
		if !ok {
			continue
		}
		if s.open {
			if minOpen < 0 || s.length < minOpen {
				minOpen = s.length
			}
		} else {
			fixed[s.length] = true
			if s.length > maxFixed {
				maxFixed = s.length
			}
		}
	}

	var out []constructor
	if !domain.open {
		if !fixed[domain.length] && (minOpen < 0 || minOpen > domain.length) {
			out = append(out, domain)
		}
		return out
	}
	if minOpen >= 0 {
		for l := domain.length; l < minOpen; l++ {
			if !fixed[l] {
				out = append(out, ctorSlice{length: l})
			}
		}
		return out
	}
	for l := domain.length; l <= maxFixed; l++ {
		if !fixed[l] {
			out = append(out, ctorSlice{length: l})
		}
	}
	bucket := domain.length
	if maxFixed+1 > bucket {
		bucket = maxFixed + 1
	}
	out = append(out, ctorSlice{length: bucket, open: true})
	return out
}
