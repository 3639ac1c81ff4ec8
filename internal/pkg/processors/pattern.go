package processors

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/common"
)

// Pattern is the expanded form the matrix operates on: bindings and
// ascriptions are stripped, sparse fields are normalized to declared arity,
// and integer/char constants are folded into point ranges.
type Pattern interface {
	fmt.Stringer
	_pattern()
	Type() typed.Type
}

type PatternAnything struct {
	Ty typed.Type
}

func (PatternAnything) _pattern() {}

func (p PatternAnything) Type() typed.Type {
	return p.Ty
}

func (PatternAnything) String() string {
	return "_"
}

type PatternVariant struct {
	Ty     *typed.TData
	Option int
	Args   []Pattern
}

func (PatternVariant) _pattern() {}

func (p PatternVariant) Type() typed.Type {
	return p.Ty
}

func (p PatternVariant) String() string {
	name := string(p.Ty.Options[p.Option].Name)
	if len(p.Args) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, common.Join(p.Args, ", "))
}

type PatternLeaf struct {
	Ty   typed.Type
	Args []Pattern
}

func (PatternLeaf) _pattern() {}

func (p PatternLeaf) Type() typed.Type {
	return p.Ty
}

func (p PatternLeaf) String() string {
	return fmt.Sprintf("(%s)", common.Join(p.Args, ", "))
}

type PatternDeref struct {
	Ty     typed.Type
	Nested Pattern
}

func (PatternDeref) _pattern() {}

func (p PatternDeref) Type() typed.Type {
	return p.Ty
}

func (p PatternDeref) String() string {
	return "&" + p.Nested.String()
}

type PatternLiteral struct {
	Ty    typed.Type
	Value ast.ConstValue
}

func (PatternLiteral) _pattern() {}

func (p PatternLiteral) Type() typed.Type {
	return p.Ty
}

func (p PatternLiteral) String() string {
	return p.Value.String()
}

// PatternRange is a canonical inclusive interval over the bias-encoded
// domain of its numeric or char type. Lo == Hi is a single value.
type PatternRange struct {
	Ty typed.Type
	Lo uint64
	Hi uint64
}

func (PatternRange) _pattern() {}

func (p PatternRange) Type() typed.Type {
	return p.Ty
}

func (p PatternRange) String() string {
	if p.Lo == p.Hi {
		return decodeConst(p.Ty, p.Lo).String()
	}
	return fmt.Sprintf("%v..=%v", decodeConst(p.Ty, p.Lo), decodeConst(p.Ty, p.Hi))
}

type PatternSlice struct {
	Ty      typed.Type
	Prefix  []Pattern
	HasRest bool
	Suffix  []Pattern
}

func (PatternSlice) _pattern() {}

func (p PatternSlice) Type() typed.Type {
	return p.Ty
}

func (p PatternSlice) String() string {
	parts := common.Map(func(x Pattern) string { return x.String() }, p.Prefix)
	if p.HasRest {
		parts = append(parts, "..")
	}
	parts = append(parts, common.Map(func(x Pattern) string { return x.String() }, p.Suffix)...)
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

type PatternOr struct {
	Ty   typed.Type
	Alts []Pattern
}

func (PatternOr) _pattern() {}

func (p PatternOr) Type() typed.Type {
	return p.Ty
}

func (p PatternOr) String() string {
	return common.Join(p.Alts, " | ")
}

// numericDomain returns the encoded value domain of a rangeable type.
func numericDomain(ty typed.Type) (uint64, uint64, bool) {
	switch e := ty.(type) {
	case *typed.TNumber:
		if e.Bits >= 64 {
			return 0, ^uint64(0), true
		}
		return 0, (uint64(1) << e.Bits) - 1, true
	case *typed.TChar:
		return 0, 0x10FFFF, true
	}
	return 0, 0, false
}

// encodeConst maps a constant onto the unsigned encoded domain so interval
// arithmetic works uniformly: signed values are biased by flipping the sign
// bit, chars use their code point.
func encodeConst(ty typed.Type, v ast.ConstValue) uint64 {
	switch e := ty.(type) {
	case *typed.TNumber:
		var raw uint64
		switch c := v.(type) {
		case ast.CInt:
			raw = uint64(c.Value)
		case ast.CUint:
			raw = c.Value
		default:
			panic(common.SystemError{Message: "numeric pattern with non-integer constant"})
		}
		mask := ^uint64(0)
		if e.Bits < 64 {
			mask = (uint64(1) << e.Bits) - 1
		}
		raw &= mask
		if e.Signed {
			return raw ^ (uint64(1) << (e.Bits - 1))
		}
		return raw
	case *typed.TChar:
		c, ok := v.(ast.CChar)
		if !ok {
			panic(common.SystemError{Message: "char pattern with non-char constant"})
		}
		return uint64(c.Value)
	}
	panic(common.SystemError{Message: "constant of non-rangeable type"})
}

func decodeConst(ty typed.Type, enc uint64) ast.ConstValue {
	switch e := ty.(type) {
	case *typed.TNumber:
		if !e.Signed {
			return ast.CUint{Value: enc}
		}
		bias := uint64(1) << (e.Bits - 1)
		raw := enc ^ bias
		// sign-extend from e.Bits
		shift := 64 - e.Bits
		return ast.CInt{Value: int64(raw<<shift) >> shift}
	case *typed.TChar:
		return ast.CChar{Value: rune(enc)}
	}
	panic(common.SystemError{Message: "constant of non-rangeable type"})
}

// expandPattern converts a lowered pattern into matrix form.
func expandPattern(pattern typed.Pattern) Pattern {
	switch e := pattern.(type) {
	case *typed.PAny:
		return PatternAnything{Ty: e.GetType()}
	case *typed.PBinding:
		if e.Nested != nil {
			return expandPattern(e.Nested)
		}
		return PatternAnything{Ty: e.GetType()}
	case *typed.PAscribe:
		return expandPattern(e.Nested)
	case *typed.PVariant:
		data, ok := e.GetType().(*typed.TData)
		if !ok {
			panic(common.SystemError{Message: "variant pattern with non-data type"})
		}
		option := data.Options[e.Option]
		return PatternVariant{
			Ty:     data,
			Option: e.Option,
			Args:   expandFields(e.Fields, option.Values),
		}
	case *typed.PLeaf:
		tuple, ok := e.GetType().(*typed.TTuple)
		if !ok {
			panic(common.SystemError{Message: "leaf pattern with non-product type"})
		}
		return PatternLeaf{
			Ty:   tuple,
			Args: expandFields(e.Fields, tuple.Items),
		}
	case *typed.PDeref:
		return PatternDeref{Ty: e.GetType(), Nested: expandPattern(e.Nested)}
	case *typed.PConst:
		ty := e.GetType()
		if _, _, ok := numericDomain(ty); ok {
			enc := encodeConst(ty, e.Value)
			return PatternRange{Ty: ty, Lo: enc, Hi: enc}
		}
		if _, ok := e.Value.(ast.CUnit); ok {
			return PatternLeaf{Ty: ty}
		}
		return PatternLiteral{Ty: ty, Value: e.Value}
	case *typed.PRange:
		ty := e.GetType()
		lo := encodeConst(ty, e.Low)
		hi := encodeConst(ty, e.High)
		if !e.Inclusive {
			if hi == 0 || hi-1 < lo {
				panic(common.SystemError{Message: "empty range pattern survived type checking"})
			}
			hi--
		}
		if hi < lo {
			panic(common.SystemError{Message: "empty range pattern survived type checking"})
		}
		return PatternRange{Ty: ty, Lo: lo, Hi: hi}
	case *typed.PSlice:
		return PatternSlice{
			Ty:      e.GetType(),
			Prefix:  common.Map(expandPattern, e.Prefix),
			HasRest: e.HasRest,
			Suffix:  common.Map(expandPattern, e.Suffix),
		}
	case *typed.POr:
		return PatternOr{Ty: e.GetType(), Alts: common.Map(expandPattern, e.Items)}
	}
	panic(common.SystemError{Message: "invalid case"})
}

func expandFields(fields []typed.FieldPattern, declared []typed.Type) []Pattern {
	args := make([]Pattern, len(declared))
	for i, t := range declared {
		args[i] = PatternAnything{Ty: t}
	}
	for _, f := range fields {
		if f.Index < 0 || f.Index >= len(declared) {
			panic(common.SystemError{Message: "field pattern index out of declared arity"})
		}
		args[f.Index] = expandPattern(f.Pattern)
	}
	return args
}

func wildcardsFor(types []typed.Type) []Pattern {
	return common.Map(func(t typed.Type) Pattern { return PatternAnything{Ty: t} }, types)
}
