package processors

import (
	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/common"
	"sable-compiler/internal/pkg/config"
)

// matchContext is the read-only state one match check runs under: the
// module the scrutinee is viewed from (variant visibility, locality of
// non-exhaustive enums) and the checker configuration.
type matchContext struct {
	module ast.QualifiedIdentifier
	cfg    *config.Config
}

func newMatchContext(module ast.QualifiedIdentifier, cfg *config.Config) *matchContext {
	if cfg == nil {
		cfg = config.Default()
	}
	return &matchContext{module: module, cfg: cfg}
}

// usefulness is the verdict of isUseful. Witnesses are rows of concrete
// uncovered patterns, only built when requested.
type usefulness struct {
	useful    bool
	witnesses [][]Pattern
}

var notUseful = usefulness{}

// isUseful decides whether the candidate row can match some value no
// matrix row matches. Structural recursion on the column count: the head
// either commits to a constructor (specialize and recurse once per split
// piece) or is wildcard-like (branch over the constructors present, or
// fall through to the default matrix when the head column is incomplete).
// Witness rows are reassembled outward while unwinding.
func (ctx *matchContext) isUseful(matrix [][]Pattern, v []Pattern, withWitness bool) usefulness {
	assertRowWidths(matrix, v)

	if len(v) == 0 {
		if len(matrix) == 0 {
			return usefulness{useful: true, witnesses: [][]Pattern{{}}}
		}
		return notUseful
	}

	switch head := v[0].(type) {
	case PatternOr:
		// Each alternative runs against the same matrix, not against
		// its siblings.
		result := notUseful
		for _, alt := range head.Alts {
			sub := ctx.isUseful(matrix, append([]Pattern{alt}, v[1:]...), withWitness)
			if sub.useful {
				result.useful = true
				result.witnesses = append(result.witnesses, sub.witnesses...)
				if !withWitness {
					return result
				}
			}
		}
		return result
	case PatternAnything:
		return ctx.isUsefulWild(matrix, v, head.Ty, withWitness)
	default:
		c, ok := headConstructor(v[0])
		if !ok {
			panic(common.SystemError{Message: "invalid case"})
		}
		return ctx.isUsefulCtor(matrix, v, c, withWitness)
	}
}

// isUsefulCtor handles a candidate committed to a concrete constructor:
// no branching over the type's constructor set is needed.
func (ctx *matchContext) isUsefulCtor(matrix [][]Pattern, v []Pattern, c constructor, withWitness bool) usefulness {
	ty := v[0].Type()
	result := notUseful
	for _, piece := range splitConstructor(c, headConstructors(matrix)) {
		vRows := specializeRow(ty, piece, v)
		if len(vRows) != 1 {
			panic(common.SystemError{Message: "candidate row did not specialize to a single row"})
		}
		sub := ctx.isUseful(specializeMatrix(ty, piece, matrix), vRows[0], withWitness)
		if !sub.useful {
			continue
		}
		result.useful = true
		if !withWitness {
			return result
		}
		result.witnesses = append(result.witnesses, rewrapWitnesses(ty, piece, sub.witnesses)...)
	}
	return result
}

// isUsefulWild handles a wildcard-like candidate head.
func (ctx *matchContext) isUsefulWild(matrix [][]Pattern, v []Pattern, ty typed.Type, withWitness bool) usefulness {
	used := headConstructors(matrix)
	missing, open := ctx.missingConstructors(ty, used)

	if len(missing) == 0 && !open {
		// The head column is complete: the candidate is useful iff it
		// is useful under some constructor of the type.
		all, _ := ctx.allConstructors(ty)
		result := notUseful
		for _, c := range all {
			for _, piece := range splitConstructor(c, used) {
				subV := append(wildcardsFor(ctorSubTypes(ty, piece)), v[1:]...)
				sub := ctx.isUseful(specializeMatrix(ty, piece, matrix), subV, withWitness)
				if !sub.useful {
					continue
				}
				result.useful = true
				if !withWitness {
					return result
				}
				result.witnesses = append(result.witnesses, rewrapWitnesses(ty, piece, sub.witnesses)...)
			}
		}
		return result
	}

	// Some constructors are absent from the head column (or the set
	// is open-ended): rows with a committed head cannot match the gap, so
	// recurse on the default matrix and head the witnesses with the
	// missing constructors.
	sub := ctx.isUseful(specializeMatrixByAnything(matrix), v[1:], withWitness)
	if !sub.useful {
		return notUseful
	}
	result := usefulness{useful: true}
	if !withWitness {
		return result
	}

	heads := missing
	if open {
		// The gap includes constructors the user cannot name; a wildcard
		// is the only honest witness head.
		heads = []constructor{ctorMissing{}}
	}
	for _, w := range sub.witnesses {
		for _, m := range heads {
			head := applyConstructor(ty, m, wildcardsFor(ctorSubTypes(ty, m)))
			result.witnesses = append(result.witnesses, append([]Pattern{head}, w...))
		}
	}
	return result
}

func rewrapWitnesses(ty typed.Type, c constructor, witnesses [][]Pattern) [][]Pattern {
	arity := ctorArity(ty, c)
	return common.Map(func(w []Pattern) []Pattern {
		if len(w) < arity {
			panic(common.SystemError{Message: "witness row narrower than constructor arity"})
		}
		head := applyConstructor(ty, c, append([]Pattern{}, w[:arity]...))
		return append([]Pattern{head}, w[arity:]...)
	}, witnesses)
}

// assertRowWidths enforces the column-count invariant on every entry; a
// violation is a checker defect, not a user error.
func assertRowWidths(matrix [][]Pattern, v []Pattern) {
	for _, row := range matrix {
		if len(row) != len(v) {
			panic(common.SystemError{Message: "pattern matrix rows must share the candidate row width"})
		}
	}
}
