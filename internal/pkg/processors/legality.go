package processors

import (
	"fmt"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/diag"
)

// checkPatternsLegality runs the non-matrix passes over a binding group
// (one arm's alternatives, or a single irrefutable pattern): move/ref
// conflicts and bindings below `@`.
func (c *PatternChecker) checkPatternsLegality(hasGuard bool, pats []typed.Pattern) {
	c.checkMoveBindings(hasGuard, pats)
	for _, pat := range pats {
		c.checkBindingsInAtPatterns(pat)
	}
}

// checkMoveBindings forbids mixing by-move bindings of non-copyable values
// with by-ref bindings in one group, by-move bindings with sub-bindings,
// and (outside the relaxed mode) by-move bindings under a guard.
func (c *PatternChecker) checkMoveBindings(hasGuard bool, pats []typed.Pattern) {
	var byRefLoc *ast.Location
	for _, pat := range pats {
		typed.WalkPatterns(pat, func(p typed.Pattern) bool {
			binding, ok := p.(*typed.PBinding)
			if !ok {
				return true
			}
			if binding.Mode == nil {
				c.log.Delay(binding.GetLocation(), "missing binding mode")
				return true
			}
			if *binding.Mode == typed.BindByRef {
				loc := binding.GetLocation()
				byRefLoc = &loc
			}
			return true
		})
	}

	var byMoveLocs []ast.Location
	checkMove := func(binding *typed.PBinding) {
		// x @ Foo(..) is legal, but x @ Foo(y) is not.
		if binding.Nested != nil && typed.ContainsBindings(binding.Nested) {
			report := diag.Report{
				Kind:     diag.KindMoveSubBindings,
				Severity: diag.SeverityError,
				Location: binding.GetLocation(),
				Message:  "cannot bind by-move with sub-bindings",
			}
			report.Label(binding.GetLocation(), "binds an already bound by-move value by moving it")
			c.log.Report(report)
		} else if hasGuard {
			if !c.ctx.cfg.BindByMoveGuards {
				report := diag.Report{
					Kind:     diag.KindMoveIntoGuard,
					Severity: diag.SeverityError,
					Location: binding.GetLocation(),
					Message:  "cannot bind by-move into a pattern guard",
					Help:     "enable the bind-by-move-pattern-guards mode to allow this",
				}
				report.Label(binding.GetLocation(), "moves value into pattern guard")
				c.log.Report(report)
			}
		} else if byRefLoc != nil {
			byMoveLocs = append(byMoveLocs, binding.GetLocation())
		}
	}

	for _, pat := range pats {
		typed.WalkPatterns(pat, func(p typed.Pattern) bool {
			binding, ok := p.(*typed.PBinding)
			if !ok {
				return true
			}
			if binding.Mode == nil {
				return true
			}
			if *binding.Mode == typed.BindByValue && !typed.IsCopy(binding.GetType()) {
				checkMove(binding)
			}
			return true
		})
	}

	if len(byMoveLocs) > 0 {
		report := diag.Report{
			Kind:     diag.KindMoveAndRefConflict,
			Severity: diag.SeverityError,
			Location: byMoveLocs[0],
			Message:  "cannot bind by-move and by-ref in the same pattern",
		}
		if byRefLoc != nil {
			report.Label(*byRefLoc, "both by-ref and by-move used")
		}
		for _, loc := range byMoveLocs {
			report.Label(loc, "by-move pattern here")
		}
		c.log.Report(report)
	}
}

// checkBindingsInAtPatterns forbids new bindings below an `@` binding: the
// flag flips on entering any binding's sub-pattern and restores on exit.
func (c *PatternChecker) checkBindingsInAtPatterns(pat typed.Pattern) {
	v := &atBindingVisitor{checker: c, bindingsAllowed: true}
	v.visit(pat)
}

type atBindingVisitor struct {
	checker         *PatternChecker
	bindingsAllowed bool
}

func (v *atBindingVisitor) visit(pat typed.Pattern) {
	if pat == nil {
		return
	}
	binding, ok := pat.(*typed.PBinding)
	if !ok {
		v.visitChildren(pat)
		return
	}

	if !v.bindingsAllowed {
		report := diag.Report{
			Kind:     diag.KindBindingAfterAt,
			Severity: diag.SeverityError,
			Location: binding.GetLocation(),
			Message:  "pattern bindings are not allowed after an `@`",
		}
		report.Label(binding.GetLocation(), "not allowed after `@`")
		v.checker.log.Report(report)
	}

	if binding.Nested != nil {
		wereAllowed := v.bindingsAllowed
		v.bindingsAllowed = false
		v.visit(binding.Nested)
		v.bindingsAllowed = wereAllowed
	}
}

func (v *atBindingVisitor) visitChildren(pat typed.Pattern) {
	switch e := pat.(type) {
	case *typed.PAny, *typed.PConst, *typed.PRange:
	case *typed.PVariant:
		for _, f := range e.Fields {
			v.visit(f.Pattern)
		}
	case *typed.PLeaf:
		for _, f := range e.Fields {
			v.visit(f.Pattern)
		}
	case *typed.PDeref:
		v.visit(e.Nested)
	case *typed.PSlice:
		for _, sub := range e.Prefix {
			v.visit(sub)
		}
		v.visit(e.Rest)
		for _, sub := range e.Suffix {
			v.visit(sub)
		}
	case *typed.POr:
		for _, sub := range e.Items {
			v.visit(sub)
		}
	case *typed.PAscribe:
		v.visit(e.Nested)
	}
}

// checkBindingsNamedSameAsVariants warns when an immutable by-value
// binding shadows a unit variant of its own type, the classic typo for a
// variant pattern.
func (c *PatternChecker) checkBindingsNamedSameAsVariants(pat typed.Pattern) {
	typed.WalkPatterns(pat, func(p typed.Pattern) bool {
		binding, ok := p.(*typed.PBinding)
		if !ok || binding.Nested != nil {
			return true
		}
		if binding.Mode == nil {
			c.log.Delay(binding.GetLocation(), "missing binding mode")
			return true
		}
		if *binding.Mode != typed.BindByValue || binding.Mutable {
			return true
		}
		data, ok := binding.GetType().(*typed.TData)
		if !ok {
			return true
		}
		option, ok := data.OptionByName(binding.Name)
		if !ok || len(data.Options[option].Values) != 0 {
			return true
		}

		report := diag.Report{
			Kind:     diag.KindBindingShadowsVariant,
			Severity: diag.SeverityWarning,
			Location: binding.GetLocation(),
			Message: fmt.Sprintf("pattern binding `%s` is named the same as one of the variants of the type `%s`",
				binding.Name, data.Name),
			Suggestion: &diag.Suggestion{
				Location:      binding.GetLocation(),
				Message:       "to match on the variant, qualify the path",
				Replacement:   fmt.Sprintf("%s.%s", data.Name, binding.Name),
				Applicability: diag.ApplicabilityMachineApplicable,
			},
		}
		c.log.Report(report)
		return true
	})
}

// checkGuardMutation rejects mutable borrows and writes observed while
// walking a guard; plain reads, shared borrows and initializations pass.
func (c *PatternChecker) checkGuardMutation(guard *typed.Guard) {
	for _, use := range guard.Uses {
		switch use.Kind {
		case typed.GuardUseMutBorrow:
			report := diag.Report{
				Kind:     diag.KindMutableBorrowInGuard,
				Severity: diag.SeverityError,
				Location: use.Location,
				Message:  "cannot mutably borrow in a pattern guard",
				Help:     "enable the bind-by-move-pattern-guards mode to allow this",
			}
			report.Label(use.Location, "borrowed mutably in pattern guard")
			c.log.Report(report)
		case typed.GuardUseWrite, typed.GuardUseReadWrite:
			report := diag.Report{
				Kind:     diag.KindAssignInGuard,
				Severity: diag.SeverityError,
				Location: use.Location,
				Message:  "cannot assign in a pattern guard",
			}
			report.Label(use.Location, "assignment in pattern guard")
			c.log.Report(report)
		case typed.GuardUseImmBorrow, typed.GuardUseUniqueImmBorrow, typed.GuardUseInit:
		}
	}
}
