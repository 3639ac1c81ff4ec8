package processors

import (
	"fmt"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/config"
	"sable-compiler/internal/pkg/diag"
)

const (
	colorSource = "type Color = Red | Green | Blue"
	shapeSource = "type Shape = Dot | Line(Bool) | Poly(U8, Bool)"
)

func srcLoc(content string, start, end uint32) ast.Location {
	return ast.NewLocation("main.sb", []rune(content), start, end)
}

func boolType() *typed.TBool { return &typed.TBool{} }

func u8Type() *typed.TNumber { return &typed.TNumber{Bits: 8} }

func i8Type() *typed.TNumber { return &typed.TNumber{Bits: 8, Signed: true} }

func u64Type() *typed.TNumber { return &typed.TNumber{Bits: 64} }

func colorType() *typed.TData {
	return &typed.TData{
		Location: srcLoc(colorSource, 0, uint32(len(colorSource))),
		Name:     "Main.Color",
		Options: []typed.DataOption{
			{Name: "Red", Location: srcLoc(colorSource, 13, 16)},
			{Name: "Green", Location: srcLoc(colorSource, 19, 24)},
			{Name: "Blue", Location: srcLoc(colorSource, 27, 31)},
		},
		Copyable: true,
	}
}

func shapeType() *typed.TData {
	return &typed.TData{
		Location: srcLoc(shapeSource, 0, uint32(len(shapeSource))),
		Name:     "Main.Shape",
		Options: []typed.DataOption{
			{Name: "Dot", Location: srcLoc(shapeSource, 13, 16)},
			{Name: "Line", Location: srcLoc(shapeSource, 19, 23), Values: []typed.Type{boolType()}},
			{Name: "Poly", Location: srcLoc(shapeSource, 32, 36), Values: []typed.Type{u8Type(), boolType()}},
		},
		Copyable: true,
	}
}

func wildOf(ty typed.Type) Pattern {
	return PatternAnything{Ty: ty}
}

func variantOf(data *typed.TData, name ast.Identifier, args ...Pattern) Pattern {
	option, ok := data.OptionByName(name)
	if !ok {
		panic(fmt.Sprintf("unknown variant %s", name))
	}
	if len(args) == 0 {
		args = wildcardsFor(data.Options[option].Values)
	}
	return PatternVariant{Ty: data, Option: option, Args: args}
}

func litBool(v bool) Pattern {
	return PatternLiteral{Ty: boolType(), Value: ast.CBool{Value: v}}
}

func intRange(ty typed.Type, lo, hi int64) Pattern {
	return PatternRange{
		Ty: ty,
		Lo: encodeConst(ty, ast.CInt{Value: lo}),
		Hi: encodeConst(ty, ast.CInt{Value: hi}),
	}
}

func intPoint(ty typed.Type, v int64) Pattern {
	return intRange(ty, v, v)
}

func rows(pats ...Pattern) [][]Pattern {
	matrix := make([][]Pattern, len(pats))
	for i, p := range pats {
		matrix[i] = []Pattern{p}
	}
	return matrix
}

func byValue() *typed.BindingMode {
	m := typed.BindByValue
	return &m
}

func byRef() *typed.BindingMode {
	m := typed.BindByRef
	return &m
}

func tAny(ty typed.Type) *typed.PAny {
	return &typed.PAny{Type: ty}
}

func tAnyAt(ty typed.Type, loc ast.Location) *typed.PAny {
	return &typed.PAny{Location: loc, Type: ty}
}

func tVariant(data *typed.TData, name ast.Identifier, fields ...typed.Pattern) *typed.PVariant {
	return tVariantAt(data, name, ast.Location{}, fields...)
}

func tVariantAt(data *typed.TData, name ast.Identifier, loc ast.Location, fields ...typed.Pattern) *typed.PVariant {
	option, ok := data.OptionByName(name)
	if !ok {
		panic(fmt.Sprintf("unknown variant %s", name))
	}
	var fps []typed.FieldPattern
	for i, f := range fields {
		fps = append(fps, typed.FieldPattern{Index: i, Pattern: f})
	}
	return &typed.PVariant{Location: loc, Type: data, Option: option, Fields: fps}
}

func tConst(ty typed.Type, v ast.ConstValue) *typed.PConst {
	return &typed.PConst{Type: ty, Value: v}
}

func tBind(name ast.Identifier, ty typed.Type, mode *typed.BindingMode, nested typed.Pattern) *typed.PBinding {
	return &typed.PBinding{Type: ty, Name: name, Mode: mode, Nested: nested}
}

func arm(pats ...typed.Pattern) typed.Arm {
	return typed.Arm{Patterns: pats}
}

func guardedArm(guard *typed.Guard, pats ...typed.Pattern) typed.Arm {
	return typed.Arm{Patterns: pats, Guard: guard}
}

func newTestChecker(cfg *config.Config) (*PatternChecker, *diag.Log) {
	log := &diag.Log{}
	return NewPatternChecker("Main", cfg, log), log
}

func reportKinds(log *diag.Log) []diag.Kind {
	var kinds []diag.Kind
	for _, r := range log.Reports() {
		kinds = append(kinds, r.Kind)
	}
	return kinds
}

func labelMessages(r diag.Report) []string {
	var out []string
	for _, l := range r.Labels {
		out = append(out, l.Message)
	}
	return out
}
