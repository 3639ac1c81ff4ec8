package typed

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/common"
)

// Pattern is the tree the lowering collaborator hands to the checker.
// Nodes carry the type assigned by inference and the source location.
type Pattern interface {
	fmt.Stringer
	_pattern()
	GetLocation() ast.Location
	GetType() Type
}

type BindingMode int

const (
	BindByValue BindingMode = iota
	BindByRef
)

type PAny struct {
	ast.Location
	Type
}

func (*PAny) _pattern() {}

func (p *PAny) GetLocation() ast.Location {
	return p.Location
}

func (p *PAny) GetType() Type {
	return p.Type
}

func (p *PAny) String() string {
	return "_"
}

// PBinding introduces a name. Mode is nil when the lowering collaborator
// failed to record it, that is an internal defect reported as a delayed
// compiler bug, not a user diagnostic.
type PBinding struct {
	ast.Location
	Type
	Name    ast.Identifier
	Mode    *BindingMode
	Mutable bool
	Nested  Pattern
}

func (*PBinding) _pattern() {}

func (p *PBinding) GetLocation() ast.Location {
	return p.Location
}

func (p *PBinding) GetType() Type {
	return p.Type
}

func (p *PBinding) String() string {
	if p.Nested != nil {
		return fmt.Sprintf("%s @ %v", p.Name, p.Nested)
	}
	return string(p.Name)
}

// FieldPattern is a sparse field of a variant or product pattern: fields
// absent from the source are wildcards for matching purposes.
type FieldPattern struct {
	Index   int
	Pattern Pattern
}

func (f FieldPattern) String() string {
	return f.Pattern.String()
}

type PVariant struct {
	ast.Location
	Type
	Option int
	Fields []FieldPattern
}

func (*PVariant) _pattern() {}

func (p *PVariant) GetLocation() ast.Location {
	return p.Location
}

func (p *PVariant) GetType() Type {
	return p.Type
}

func (p *PVariant) String() string {
	data, ok := p.Type.(*TData)
	if !ok {
		panic(common.SystemError{Message: "variant pattern with non-data type"})
	}
	name := data.Options[p.Option].Name
	if len(p.Fields) == 0 {
		return string(name)
	}
	return fmt.Sprintf("%s(%s)", name, common.Join(p.Fields, ", "))
}

// PLeaf matches the single constructor of a product type (tuples, structs).
type PLeaf struct {
	ast.Location
	Type
	Fields []FieldPattern
}

func (*PLeaf) _pattern() {}

func (p *PLeaf) GetLocation() ast.Location {
	return p.Location
}

func (p *PLeaf) GetType() Type {
	return p.Type
}

func (p *PLeaf) String() string {
	return fmt.Sprintf("(%s)", common.Join(p.Fields, ", "))
}

type PDeref struct {
	ast.Location
	Type
	Nested Pattern
}

func (*PDeref) _pattern() {}

func (p *PDeref) GetLocation() ast.Location {
	return p.Location
}

func (p *PDeref) GetType() Type {
	return p.Type
}

func (p *PDeref) String() string {
	return "&" + p.Nested.String()
}

type PConst struct {
	ast.Location
	Type
	Value ast.ConstValue
}

func (*PConst) _pattern() {}

func (p *PConst) GetLocation() ast.Location {
	return p.Location
}

func (p *PConst) GetType() Type {
	return p.Type
}

func (p *PConst) String() string {
	return p.Value.String()
}

type PRange struct {
	ast.Location
	Type
	Low       ast.ConstValue
	High      ast.ConstValue
	Inclusive bool
}

func (*PRange) _pattern() {}

func (p *PRange) GetLocation() ast.Location {
	return p.Location
}

func (p *PRange) GetType() Type {
	return p.Type
}

func (p *PRange) String() string {
	if p.Inclusive {
		return fmt.Sprintf("%v..=%v", p.Low, p.High)
	}
	return fmt.Sprintf("%v..%v", p.Low, p.High)
}

// PSlice matches sequences: fixed-length when HasRest is false, otherwise
// any length that fits the prefix and suffix. Rest may carry the binding
// for the middle section and is transparent for matching.
type PSlice struct {
	ast.Location
	Type
	Prefix  []Pattern
	HasRest bool
	Rest    Pattern
	Suffix  []Pattern
}

func (*PSlice) _pattern() {}

func (p *PSlice) GetLocation() ast.Location {
	return p.Location
}

func (p *PSlice) GetType() Type {
	return p.Type
}

func (p *PSlice) String() string {
	parts := common.Map(func(x Pattern) string { return x.String() }, p.Prefix)
	if p.HasRest {
		parts = append(parts, "..")
	}
	parts = append(parts, common.Map(func(x Pattern) string { return x.String() }, p.Suffix)...)
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

type POr struct {
	ast.Location
	Type
	Items []Pattern
}

func (*POr) _pattern() {}

func (p *POr) GetLocation() ast.Location {
	return p.Location
}

func (p *POr) GetType() Type {
	return p.Type
}

func (p *POr) String() string {
	return strings.Join(common.Map(func(x Pattern) string { return x.String() }, p.Items), " | ")
}

// PAscribe is a transparent type annotation, stripped before matrix use.
type PAscribe struct {
	ast.Location
	Type
	Nested Pattern
}

func (*PAscribe) _pattern() {}

func (p *PAscribe) GetLocation() ast.Location {
	return p.Location
}

func (p *PAscribe) GetType() Type {
	return p.Type
}

func (p *PAscribe) String() string {
	return p.Nested.String()
}

// WalkPatterns visits the tree pre-order; f returning false stops descent
// below the current node.
func WalkPatterns(p Pattern, f func(Pattern) bool) {
	if p == nil || !f(p) {
		return
	}
	switch e := p.(type) {
	case *PAny, *PConst, *PRange:
	case *PBinding:
		WalkPatterns(e.Nested, f)
	case *PVariant:
		for _, fp := range e.Fields {
			WalkPatterns(fp.Pattern, f)
		}
	case *PLeaf:
		for _, fp := range e.Fields {
			WalkPatterns(fp.Pattern, f)
		}
	case *PDeref:
		WalkPatterns(e.Nested, f)
	case *PSlice:
		for _, sub := range e.Prefix {
			WalkPatterns(sub, f)
		}
		WalkPatterns(e.Rest, f)
		for _, sub := range e.Suffix {
			WalkPatterns(sub, f)
		}
	case *POr:
		for _, sub := range e.Items {
			WalkPatterns(sub, f)
		}
	case *PAscribe:
		WalkPatterns(e.Nested, f)
	default:
		panic(common.SystemError{Message: "invalid case"})
	}
}

func ContainsBindings(p Pattern) bool {
	found := false
	WalkPatterns(p, func(sub Pattern) bool {
		if _, ok := sub.(*PBinding); ok {
			found = true
		}
		return !found
	})
	return found
}
