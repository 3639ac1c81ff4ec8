package typed

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/common"
)

type Type interface {
	fmt.Stringer
	_type()
	GetLocation() ast.Location
}

// DataOption is a single variant of a data (enum) type.
type DataOption struct {
	Name     ast.Identifier
	Location ast.Location
	Values   []Type
}

func (d DataOption) String() string {
	return fmt.Sprintf("%s(%d)", d.Name, len(d.Values))
}

// TData is an algebraic data type with a closed set of variants.
// NonExhaustive marks types whose author reserved the right to add variants;
// from outside the defining module they behave as if they had one extra
// unnamed variant. Copyable mirrors the binding-mode query of the type
// checker: bindings of non-copyable data move the value.
type TData struct {
	ast.Location
	Name          ast.FullIdentifier
	Options       []DataOption
	NonExhaustive bool
	Copyable      bool
}

func (*TData) _type() {}

func (t *TData) GetLocation() ast.Location {
	return t.Location
}

func (t *TData) String() string {
	return string(t.Name)
}

func (t *TData) OptionByName(name ast.Identifier) (int, bool) {
	for i, o := range t.Options {
		if o.Name == name {
			return i, true
		}
	}
	return 0, false
}

// TNumber is a sized integer domain (chars live in TChar).
type TNumber struct {
	ast.Location
	Bits   uint
	Signed bool
}

func (*TNumber) _type() {}

func (t *TNumber) GetLocation() ast.Location {
	return t.Location
}

func (t *TNumber) String() string {
	if t.Signed {
		return fmt.Sprintf("I%d", t.Bits)
	}
	return fmt.Sprintf("U%d", t.Bits)
}

type TChar struct {
	ast.Location
}

func (*TChar) _type() {}

func (t *TChar) GetLocation() ast.Location {
	return t.Location
}

func (t *TChar) String() string {
	return "Char"
}

type TBool struct {
	ast.Location
}

func (*TBool) _type() {}

func (t *TBool) GetLocation() ast.Location {
	return t.Location
}

func (t *TBool) String() string {
	return "Bool"
}

type TString struct {
	ast.Location
}

func (*TString) _type() {}

func (t *TString) GetLocation() ast.Location {
	return t.Location
}

func (t *TString) String() string {
	return "String"
}

type TFloat struct {
	ast.Location
}

func (*TFloat) _type() {}

func (t *TFloat) GetLocation() ast.Location {
	return t.Location
}

func (t *TFloat) String() string {
	return "Float"
}

type TTuple struct {
	ast.Location
	Items []Type
}

func (*TTuple) _type() {}

func (t *TTuple) GetLocation() ast.Location {
	return t.Location
}

func (t *TTuple) String() string {
	items := common.Map(func(x Type) string { return x.String() }, t.Items)
	return fmt.Sprintf("(%s)", strings.Join(items, ", "))
}

// TRef covers reference and box indirection, one transparent sub-column.
type TRef struct {
	ast.Location
	Nested Type
}

func (*TRef) _type() {}

func (t *TRef) GetLocation() ast.Location {
	return t.Location
}

func (t *TRef) String() string {
	return "&" + t.Nested.String()
}

type TArray struct {
	ast.Location
	Item Type
	Len  int
}

func (*TArray) _type() {}

func (t *TArray) GetLocation() ast.Location {
	return t.Location
}

func (t *TArray) String() string {
	return fmt.Sprintf("[%s; %d]", t.Item, t.Len)
}

type TSlice struct {
	ast.Location
	Item Type
}

func (*TSlice) _type() {}

func (t *TSlice) GetLocation() ast.Location {
	return t.Location
}

func (t *TSlice) String() string {
	return fmt.Sprintf("[%s]", t.Item)
}

// TNever is the bottom type, it has no values.
type TNever struct {
	ast.Location
}

func (*TNever) _type() {}

func (t *TNever) GetLocation() ast.Location {
	return t.Location
}

func (t *TNever) String() string {
	return "Never"
}

// TOpaque is a type whose constructor set is not visible to the checker.
type TOpaque struct {
	ast.Location
	Name ast.FullIdentifier
}

func (*TOpaque) _type() {}

func (t *TOpaque) GetLocation() ast.Location {
	return t.Location
}

func (t *TOpaque) String() string {
	return string(t.Name)
}

// PeelRefs strips reference layers, diagnostics point at the referent type.
func PeelRefs(t Type) Type {
	for {
		ref, ok := t.(*TRef)
		if !ok {
			return t
		}
		t = ref.Nested
	}
}

// IsUninhabited reports whether the type has no values when viewed from
// module. The exhaustivePatterns switch selects between the conservative
// rule (only Never and empty local enums are uninhabited) and the relaxed
// rule that also looks through variant fields, tuples and arrays. Both
// paths are kept deliberately, they differ by compilation mode.
func IsUninhabited(t Type, module ast.QualifiedIdentifier, exhaustivePatterns bool) bool {
	return isUninhabited(t, module, exhaustivePatterns, map[ast.FullIdentifier]bool{})
}

func isUninhabited(t Type, module ast.QualifiedIdentifier, exhaustivePatterns bool, seen map[ast.FullIdentifier]bool) bool {
	switch e := t.(type) {
	case *TNever:
		return true
	case *TData:
		if e.NonExhaustive && e.Name.Module() != module {
			return false
		}
		if len(e.Options) == 0 {
			return true
		}
		if !exhaustivePatterns {
			return false
		}
		if seen[e.Name] {
			return false
		}
		seen[e.Name] = true
		defer delete(seen, e.Name)
		return common.All(func(o DataOption) bool {
			return common.Any(func(v Type) bool {
				return isUninhabited(v, module, exhaustivePatterns, seen)
			}, o.Values)
		}, e.Options)
	case *TTuple:
		return common.Any(func(v Type) bool {
			return isUninhabited(v, module, exhaustivePatterns, seen)
		}, e.Items)
	case *TArray:
		return e.Len > 0 && isUninhabited(e.Item, module, exhaustivePatterns, seen)
	default:
		return false
	}
}

// IsCopy reports whether bindings of the type copy instead of move.
func IsCopy(t Type) bool {
	switch e := t.(type) {
	case *TNumber, *TChar, *TBool, *TFloat, *TNever, *TRef:
		return true
	case *TString, *TSlice, *TOpaque:
		return false
	case *TTuple:
		return common.All(IsCopy, e.Items)
	case *TArray:
		return IsCopy(e.Item)
	case *TData:
		return e.Copyable
	}
	panic(common.SystemError{Message: "invalid case"})
}
