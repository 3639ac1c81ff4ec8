package processors

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/common"
	"sable-compiler/internal/pkg/config"
	"sable-compiler/internal/pkg/diag"
)

// MatchSource records which surface construct desugared into the match;
// reachability verdicts are reported differently per origin.
type MatchSource int

const (
	MatchSourceNormal MatchSource = iota
	MatchSourceIfDesugar
	MatchSourceIfLetDesugar
	MatchSourceWhileDesugar
	MatchSourceWhileLetDesugar
	MatchSourceForLoopDesugar
	MatchSourceAwaitDesugar
	MatchSourceTryDesugar
)

// IrrefutableOrigin names the binding site an irrefutable pattern sits in.
type IrrefutableOrigin string

const (
	OriginLocalBinding   IrrefutableOrigin = "local binding"
	OriginForLoopBinding IrrefutableOrigin = "`for` loop binding"
	OriginAsyncFnBinding IrrefutableOrigin = "async fn binding"
	OriginAwaitBinding   IrrefutableOrigin = "`await` future binding"
	OriginFunctionArg    IrrefutableOrigin = "function argument"
)

// PatternChecker runs the match checks of one function body. It owns no
// state beyond the signalled flag; patterns and matrices live only for the
// duration of a single CheckMatch call.
type PatternChecker struct {
	ctx       *matchContext
	log       *diag.Log
	signalled bool
}

func NewPatternChecker(module ast.QualifiedIdentifier, cfg *config.Config, log *diag.Log) *PatternChecker {
	return &PatternChecker{
		ctx: newMatchContext(module, cfg),
		log: log,
	}
}

// Signalled reports whether downstream passes should assume the body may
// not be well-formed (guards seen, or lowering failed somewhere).
func (c *PatternChecker) Signalled() bool {
	return c.signalled
}

// CheckMatch checks one match expression: legality of each arm, per-arm
// reachability against the arms above it, and exhaustiveness of the whole
// set against the scrutinee type.
func (c *PatternChecker) CheckMatch(scrutTy typed.Type, scrutLoc ast.Location, arms []typed.Arm, source MatchSource) {
	for _, arm := range arms {
		c.checkPatternsLegality(arm.Guard != nil, arm.Patterns)

		if arm.Guard != nil {
			c.signalled = true
			if !c.ctx.cfg.BindByMoveGuards {
				c.checkGuardMutation(arm.Guard)
			}
		}

		for _, pat := range arm.Patterns {
			c.checkBindingsNamedSameAsVariants(pat)
		}
	}

	haveErrors := false
	for _, arm := range arms {
		for _, err := range arm.LoweringErrors {
			c.log.Delay(err.Location, err.Message)
			haveErrors = true
		}
	}
	if haveErrors {
		// Reachability and exhaustiveness would run on a partial matrix;
		// legality checks above already covered what could be lowered.
		c.signalled = true
		return
	}

	c.checkArms(arms, source)

	if len(arms) == 0 {
		c.checkEmptyMatch(scrutTy, scrutLoc)
		return
	}

	var matrix [][]Pattern
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		for _, pat := range arm.Patterns {
			matrix = append(matrix, []Pattern{expandPattern(pat)})
		}
	}
	c.checkExhaustive(scrutTy, scrutLoc, matrix)
}

// checkEmptyMatch handles a match with no arms: vacuously exhaustive iff
// the scrutinee type is uninhabited.
func (c *PatternChecker) checkEmptyMatch(scrutTy typed.Type, scrutLoc ast.Location) {
	var defLoc *ast.Location
	var missingVariants []typed.DataOption

	uninhabited := false
	if c.ctx.cfg.ExhaustivePatterns {
		uninhabited = typed.IsUninhabited(scrutTy, c.ctx.module, true)
		if data, ok := scrutTy.(*typed.TData); ok && !uninhabited {
			defLoc, missingVariants = describeEnum(c.ctx.module, data)
		}
	} else {
		switch e := scrutTy.(type) {
		case *typed.TNever:
			uninhabited = true
		case *typed.TData:
			defLoc, missingVariants = describeEnum(c.ctx.module, e)
			remoteNonExhaustive := e.NonExhaustive && e.Name.Module() != c.ctx.module
			uninhabited = !remoteNonExhaustive && len(e.Options) == 0
		}
	}
	if uninhabited {
		return
	}

	var message string
	switch len(missingVariants) {
	case 0:
		message = fmt.Sprintf("non-exhaustive patterns: type `%s` is non-empty", scrutTy)
	case 1:
		message = fmt.Sprintf("non-exhaustive patterns: pattern `%s` of type `%s` is not handled",
			missingVariants[0].Name, scrutTy)
	default:
		message = fmt.Sprintf("non-exhaustive patterns: multiple patterns of type `%s` are not handled", scrutTy)
	}

	report := diag.Report{
		Kind:     diag.KindNonExhaustiveMatch,
		Severity: diag.SeverityError,
		Location: scrutLoc,
		Message:  message,
		Help: "ensure that all possible cases are being handled, " +
			"possibly by adding wildcards or more match arms",
	}
	if defLoc != nil {
		report.Label(*defLoc, fmt.Sprintf("`%s` defined here", scrutTy))
	}
	for _, variant := range missingVariants {
		report.Label(variant.Location, "variant not covered")
	}
	c.log.Report(report)
}

// describeEnum collects the definition span of a local enum and, for small
// enums, the variants worth pointing at (capped at 3).
func describeEnum(module ast.QualifiedIdentifier, data *typed.TData) (*ast.Location, []typed.DataOption) {
	var defLoc *ast.Location
	if data.Name.Module() == module && !data.Location.IsEmpty() {
		loc := data.GetLocation()
		defLoc = &loc
	}
	if len(data.Options) == 0 || len(data.Options) >= 4 {
		return defLoc, nil
	}
	return defLoc, data.Options
}

// checkArms reports unreachable arms. The matrix grows arm by arm; guarded
// arms are tested but never added since their guard may fail at runtime.
func (c *PatternChecker) checkArms(arms []typed.Arm, source MatchSource) {
	var seen [][]Pattern
	var seenLocs []ast.Location
	var catchall *ast.Location

	for armIndex, arm := range arms {
		for _, pat := range arm.Patterns {
			v := []Pattern{expandPattern(pat)}

			verdict := c.ctx.isUseful(seen, v, false)
			if verdict.useful && len(verdict.witnesses) > 0 {
				panic(common.SystemError{Message: "reachability check built witnesses"})
			}
			if !verdict.useful {
				c.reportUnreachable(pat, source, armIndex, catchall, seen, seenLocs, v)
			}

			if arm.Guard == nil {
				seen = append(seen, v)
				seenLocs = append(seenLocs, pat.GetLocation())
				if catchall == nil && patIsCatchall(pat) {
					loc := pat.GetLocation()
					catchall = &loc
				}
			}
		}
	}
}

func (c *PatternChecker) reportUnreachable(
	pat typed.Pattern,
	source MatchSource,
	armIndex int,
	catchall *ast.Location,
	seen [][]Pattern,
	seenLocs []ast.Location,
	v []Pattern,
) {
	switch source {
	case MatchSourceIfLetDesugar:
		c.log.Report(diag.Report{
			Kind:     diag.KindIrrefutableLetPattern,
			Severity: diag.SeverityWarning,
			Location: pat.GetLocation(),
			Message:  "irrefutable if-let pattern",
		})
	case MatchSourceWhileLetDesugar:
		switch armIndex {
		case 0:
			// The arm with the user-specified pattern.
			c.log.Report(diag.Report{
				Kind:     diag.KindUnreachablePattern,
				Severity: diag.SeverityWarning,
				Location: pat.GetLocation(),
				Message:  "unreachable pattern",
			})
		case 1:
			// The arm with the wildcard pattern.
			c.log.Report(diag.Report{
				Kind:     diag.KindIrrefutableLetPattern,
				Severity: diag.SeverityWarning,
				Location: pat.GetLocation(),
				Message:  "irrefutable while-let pattern",
			})
		default:
			panic(common.SystemError{Message: "while-let desugaring has exactly two arms"})
		}
	case MatchSourceForLoopDesugar, MatchSourceNormal:
		report := diag.Report{
			Kind:     diag.KindUnreachablePattern,
			Severity: diag.SeverityWarning,
			Location: pat.GetLocation(),
			Message:  "unreachable pattern",
		}
		if catchall != nil {
			report.Label(pat.GetLocation(), "unreachable pattern")
			report.Label(*catchall, "matches any value")
		} else if covering, ok := c.coveringRow(seen, seenLocs, v); ok {
			report.Label(covering, "matches some of the same values")
		}
		c.log.Report(report)
	case MatchSourceAwaitDesugar, MatchSourceTryDesugar:
		// Expected artifact of uninhabited-type arms in the desugaring.
	case MatchSourceIfDesugar, MatchSourceWhileDesugar:
		// Both arms are wildcards, neither can be unreachable.
		panic(common.SystemError{Message: "unreachable arm in an if or while desugaring"})
	default:
		panic(common.SystemError{Message: "invalid case"})
	}
}

// coveringRow finds the shortest matrix prefix that already makes the
// candidate unreachable, pointing the diagnostic at the responsible arm.
func (c *PatternChecker) coveringRow(seen [][]Pattern, seenLocs []ast.Location, v []Pattern) (ast.Location, bool) {
	for k := range seen {
		if !c.ctx.isUseful(seen[:k+1], v, false).useful {
			return seenLocs[k], true
		}
	}
	return ast.Location{}, false
}

// checkExhaustive runs the final wildcard query: a useful wildcard row
// means some value escapes every guard-free arm.
func (c *PatternChecker) checkExhaustive(scrutTy typed.Type, scrutLoc ast.Location, matrix [][]Pattern) {
	verdict := c.ctx.isUseful(matrix, []Pattern{PatternAnything{Ty: scrutTy}}, true)
	if !verdict.useful {
		return
	}

	witnesses := dedupWitnesses(common.Map(func(row []Pattern) Pattern {
		if len(row) != 1 {
			panic(common.SystemError{Message: "exhaustiveness witness row must have one column"})
		}
		return row[0]
	}, verdict.witnesses))
	if len(witnesses) == 0 {
		witnesses = []Pattern{PatternAnything{Ty: scrutTy}}
	}

	joined := joinedUncoveredPatterns(witnesses, c.ctx.cfg.MaxShownWitnesses)
	report := diag.Report{
		Kind:     diag.KindNonExhaustiveMatch,
		Severity: diag.SeverityError,
		Location: scrutLoc,
		Message:  fmt.Sprintf("non-exhaustive patterns: %s not covered", joined),
		Help: "ensure that all possible cases are being handled, " +
			"possibly by adding wildcards or more match arms",
	}
	if len(witnesses) == 1 {
		report.Label(scrutLoc, fmt.Sprintf("pattern %s not covered", joined))
	} else {
		report.Label(scrutLoc, fmt.Sprintf("patterns %s not covered", joined))
	}

	peeled := typed.PeelRefs(scrutTy)
	adtDefinedHere(c.ctx.module, peeled, &report)
	if len(witnesses) < 4 {
		for _, loc := range maybePointAtVariant(peeled, witnesses) {
			report.Label(loc, "not covered")
		}
	}
	c.log.Report(report)
}

// CheckIrrefutable checks a single-pattern site (let, function argument,
// loop binding): the pattern must cover every value of its type.
func (c *PatternChecker) CheckIrrefutable(pat typed.Pattern, origin IrrefutableOrigin) {
	c.checkPatternsLegality(false, []typed.Pattern{pat})
	c.checkBindingsNamedSameAsVariants(pat)

	patTy := pat.GetType()
	matrix := [][]Pattern{{expandPattern(pat)}}
	verdict := c.ctx.isUseful(matrix, []Pattern{PatternAnything{Ty: patTy}}, true)
	if !verdict.useful {
		return
	}

	witness := Pattern(PatternAnything{Ty: patTy})
	heads := dedupWitnesses(common.Map(func(row []Pattern) Pattern {
		if len(row) != 1 {
			panic(common.SystemError{Message: "refutability witness row must have one column"})
		}
		return row[0]
	}, verdict.witnesses))
	if len(heads) > 0 {
		witness = heads[0]
	}

	report := diag.Report{
		Kind:     diag.KindNonExhaustiveBinding,
		Severity: diag.SeverityError,
		Location: pat.GetLocation(),
		Message:  fmt.Sprintf("refutable pattern in %s: `%s` not covered", origin, witness),
	}
	if isBareVariantPath(pat) {
		report.Label(pat.GetLocation(), "interpreted as a variant pattern, not a new variable")
	} else {
		report.Label(pat.GetLocation(), fmt.Sprintf("pattern `%s` not covered", witness))
	}
	adtDefinedHere(c.ctx.module, typed.PeelRefs(patTy), &report)
	c.log.Report(report)
}

// isBareVariantPath recognizes a unit variant written as a bare,
// unqualified identifier, the likely "meant a new binding" case.
func isBareVariantPath(pat typed.Pattern) bool {
	variant, ok := pat.(*typed.PVariant)
	if !ok || len(variant.Fields) != 0 {
		return false
	}
	data, ok := variant.GetType().(*typed.TData)
	if !ok || len(data.Options[variant.Option].Values) != 0 {
		return false
	}
	text := variant.GetLocation().Text()
	return text != "" && !strings.ContainsAny(text, ".(")
}

// patIsCatchall recognizes patterns that provably match any value: a bare
// binding, a reference to one, or a tuple of only catch-alls.
func patIsCatchall(pat typed.Pattern) bool {
	switch e := pat.(type) {
	case *typed.PAny:
		return true
	case *typed.PBinding:
		if e.Nested == nil {
			return true
		}
		return patIsCatchall(e.Nested)
	case *typed.PDeref:
		return patIsCatchall(e.Nested)
	case *typed.PAscribe:
		return patIsCatchall(e.Nested)
	case *typed.PLeaf:
		// Absent fields are wildcards, only written ones can refute.
		return common.All(func(f typed.FieldPattern) bool {
			return patIsCatchall(f.Pattern)
		}, e.Fields)
	}
	return false
}

func dedupWitnesses(witnesses []Pattern) []Pattern {
	var out []Pattern
	seen := map[string]bool{}
	for _, w := range witnesses {
		key := w.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	return out
}
