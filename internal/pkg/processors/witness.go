package processors

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/common"
	"sable-compiler/internal/pkg/diag"
)

// joinedUncoveredPatterns renders up to limit witnesses verbatim and
// summarizes the rest.
func joinedUncoveredPatterns(witnesses []Pattern, limit int) string {
	if len(witnesses) == 0 {
		panic(common.SystemError{Message: "no witnesses to join"})
	}
	if limit <= 0 {
		limit = 3
	}

	quoted := common.Map(func(w Pattern) string { return w.String() }, witnesses)
	switch {
	case len(quoted) == 1:
		return fmt.Sprintf("`%s`", quoted[0])
	case len(quoted) <= limit:
		head := quoted[:len(quoted)-1]
		tail := quoted[len(quoted)-1]
		return fmt.Sprintf("`%s` and `%s`", strings.Join(head, "`, `"), tail)
	default:
		head := quoted[:limit]
		return fmt.Sprintf("`%s` and %d more", strings.Join(head, "`, `"), len(quoted)-limit)
	}
}

// adtDefinedHere labels the definition of a local enum scrutinee.
func adtDefinedHere(module ast.QualifiedIdentifier, ty typed.Type, report *diag.Report) {
	data, ok := ty.(*typed.TData)
	if !ok {
		return
	}
	if data.Name.Module() != module || data.Location.IsEmpty() {
		return
	}
	report.Label(data.GetLocation(), fmt.Sprintf("`%s` defined here", ty))
}

// maybePointAtVariant locates the definitions of the variants a witness
// names, descending only through the scrutinee's own type and skipping
// spans already annotated.
func maybePointAtVariant(ty typed.Type, witnesses []Pattern) []ast.Location {
	data, ok := ty.(*typed.TData)
	if !ok {
		return nil
	}
	var covered []ast.Location
	pointAtVariant(data, witnesses, &covered)
	return covered
}

func pointAtVariant(data *typed.TData, patterns []Pattern, covered *[]ast.Location) {
	for _, pattern := range patterns {
		switch e := pattern.(type) {
		case PatternDeref:
			pointAtVariant(data, []Pattern{e.Nested}, covered)
		case PatternVariant:
			if e.Ty.Name != data.Name {
				continue
			}
			loc := data.Options[e.Option].Location
			if loc.IsEmpty() || common.Any(func(l ast.Location) bool {
				return l.EqualsTo(loc)
			}, *covered) {
				continue
			}
			*covered = append(*covered, loc)
			pointAtVariant(data, e.Args, covered)
		case PatternLeaf:
			pointAtVariant(data, e.Args, covered)
		case PatternOr:
			pointAtVariant(data, e.Alts, covered)
		}
	}
}
