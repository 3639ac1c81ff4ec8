package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/ast/typed"
	"sable-compiler/internal/pkg/config"
	"sable-compiler/internal/pkg/diag"
)

func stringType() *typed.TString { return &typed.TString{} }

func boxType() *typed.TData {
	return &typed.TData{
		Name:    "Main.Box",
		Options: []typed.DataOption{{Name: "Box", Values: []typed.Type{stringType()}}},
	}
}

func TestMoveAndRefConflict(t *testing.T) {
	checker, log := newTestChecker(nil)
	pair := &typed.TTuple{Items: []typed.Type{stringType(), stringType()}}

	refBind := &typed.PBinding{
		Location: srcLoc("ref a", 0, 5),
		Type:     stringType(),
		Name:     "a",
		Mode:     byRef(),
	}
	moveBind := &typed.PBinding{
		Location: srcLoc("b", 0, 1),
		Type:     stringType(),
		Name:     "b",
		Mode:     byValue(),
	}
	pat := &typed.PLeaf{
		Type: pair,
		Fields: []typed.FieldPattern{
			{Index: 0, Pattern: refBind},
			{Index: 1, Pattern: moveBind},
		},
	}

	checker.checkPatternsLegality(false, []typed.Pattern{pat})

	require.Len(t, log.Reports(), 1)
	report := log.Reports()[0]
	assert.Equal(t, diag.KindMoveAndRefConflict, report.Kind)
	assert.Equal(t, "cannot bind by-move and by-ref in the same pattern", report.Message)
	assert.Contains(t, labelMessages(report), "both by-ref and by-move used")
	assert.Contains(t, labelMessages(report), "by-move pattern here")
}

func TestMoveAndRefConflictAcrossAlternatives(t *testing.T) {
	checker, log := newTestChecker(nil)
	box := boxType()

	// Box(ref x) | y: the alternatives of one arm form a single group.
	refAlt := tVariant(box, "Box", tBind("x", stringType(), byRef(), nil))
	moveAlt := tBind("y", box, byValue(), nil)

	checker.checkPatternsLegality(false, []typed.Pattern{refAlt, moveAlt})

	require.Len(t, log.Reports(), 1)
	assert.Equal(t, diag.KindMoveAndRefConflict, log.Reports()[0].Kind)
}

func TestUniformBindingModesAllowed(t *testing.T) {
	checker, log := newTestChecker(nil)
	box := boxType()

	allRef := []typed.Pattern{
		tVariant(box, "Box", tBind("x", stringType(), byRef(), nil)),
		tBind("y", box, byRef(), nil),
	}
	checker.checkPatternsLegality(false, allRef)

	allMove := []typed.Pattern{
		tVariant(box, "Box", tBind("x", stringType(), byValue(), nil)),
	}
	checker.checkPatternsLegality(false, allMove)

	assert.Empty(t, log.Reports())
}

func TestRefBindingsOfCopyValuesAllowed(t *testing.T) {
	checker, log := newTestChecker(nil)
	pair := &typed.TTuple{Items: []typed.Type{boolType(), boolType()}}

	pat := &typed.PLeaf{
		Type: pair,
		Fields: []typed.FieldPattern{
			{Index: 0, Pattern: tBind("a", boolType(), byRef(), nil)},
			{Index: 1, Pattern: tBind("b", boolType(), byValue(), nil)},
		},
	}

	checker.checkPatternsLegality(false, []typed.Pattern{pat})

	assert.Empty(t, log.Reports())
}

func TestMoveWithSubBindings(t *testing.T) {
	checker, log := newTestChecker(nil)
	box := boxType()

	inner := tBind("y", stringType(), byValue(), nil)
	outer := &typed.PBinding{
		Location: srcLoc("x @ Box(y)", 0, 1),
		Type:     box,
		Name:     "x",
		Mode:     byValue(),
		Nested:   tVariant(box, "Box", inner),
	}

	checker.checkPatternsLegality(false, []typed.Pattern{outer})

	kinds := reportKinds(log)
	assert.Contains(t, kinds, diag.KindMoveSubBindings)
	assert.Contains(t, kinds, diag.KindBindingAfterAt)
}

func TestMoveWithoutSubBindingsAllowed(t *testing.T) {
	checker, log := newTestChecker(nil)
	box := boxType()

	outer := tBind("x", box, byValue(), tVariant(box, "Box", tAny(stringType())))

	checker.checkPatternsLegality(false, []typed.Pattern{outer})

	assert.Empty(t, log.Reports())
}

func TestMoveIntoGuard(t *testing.T) {
	checker, log := newTestChecker(nil)

	checker.checkPatternsLegality(true, []typed.Pattern{
		tBind("s", stringType(), byValue(), nil),
	})

	require.Len(t, log.Reports(), 1)
	report := log.Reports()[0]
	assert.Equal(t, diag.KindMoveIntoGuard, report.Kind)
	assert.Equal(t, "cannot bind by-move into a pattern guard", report.Message)
	assert.NotEmpty(t, report.Help)
}

func TestMoveIntoGuardRelaxedByConfig(t *testing.T) {
	cfg := &config.Config{BindByMoveGuards: true, MaxShownWitnesses: 3}
	checker, log := newTestChecker(cfg)

	checker.checkPatternsLegality(true, []typed.Pattern{
		tBind("s", stringType(), byValue(), nil),
	})

	assert.Empty(t, log.Reports())
}

func TestCopyBindingUnderGuardAllowed(t *testing.T) {
	checker, log := newTestChecker(nil)

	checker.checkPatternsLegality(true, []typed.Pattern{
		tBind("b", boolType(), byValue(), nil),
	})

	assert.Empty(t, log.Reports())
}

func TestBindingShadowsUnitVariant(t *testing.T) {
	checker, log := newTestChecker(nil)
	color := colorType()

	checker.checkBindingsNamedSameAsVariants(tBind("Red", color, byValue(), nil))

	require.Len(t, log.Reports(), 1)
	report := log.Reports()[0]
	assert.Equal(t, diag.KindBindingShadowsVariant, report.Kind)
	assert.Equal(t, diag.SeverityWarning, report.Severity)
	require.NotNil(t, report.Suggestion)
	assert.Equal(t, "Main.Color.Red", report.Suggestion.Replacement)
	assert.Equal(t, diag.ApplicabilityMachineApplicable, report.Suggestion.Applicability)
}

func TestShadowWarningSkipsNonUnitAndMutable(t *testing.T) {
	checker, log := newTestChecker(nil)
	shape := shapeType()
	color := colorType()

	// Line carries a payload, a bare binding cannot be a typo for it.
	checker.checkBindingsNamedSameAsVariants(tBind("Line", shape, byValue(), nil))
	// A mutable binding is clearly meant as a variable.
	mutable := tBind("Red", color, byValue(), nil)
	mutable.Mutable = true
	checker.checkBindingsNamedSameAsVariants(mutable)
	// So is an explicit by-ref binding.
	checker.checkBindingsNamedSameAsVariants(tBind("Red", color, byRef(), nil))

	assert.Empty(t, log.Reports())
}

func TestGuardMutationRejected(t *testing.T) {
	checker, log := newTestChecker(nil)
	b := boolType()
	guard := &typed.Guard{Uses: []typed.GuardUse{
		{Kind: typed.GuardUseImmBorrow, Location: srcLoc("g", 0, 1)},
		{Kind: typed.GuardUseMutBorrow, Location: srcLoc("g", 0, 1)},
		{Kind: typed.GuardUseWrite, Location: srcLoc("g", 0, 1)},
	}}

	checker.CheckMatch(b, ast.Location{}, []typed.Arm{
		guardedArm(guard, tAny(b)),
		arm(tAny(b)),
	}, MatchSourceNormal)

	kinds := reportKinds(log)
	assert.Contains(t, kinds, diag.KindMutableBorrowInGuard)
	assert.Contains(t, kinds, diag.KindAssignInGuard)
	assert.Len(t, kinds, 2)
}

func TestGuardMutationAllowedByConfig(t *testing.T) {
	cfg := &config.Config{BindByMoveGuards: true, MaxShownWitnesses: 3}
	checker, log := newTestChecker(cfg)
	b := boolType()
	guard := &typed.Guard{Uses: []typed.GuardUse{
		{Kind: typed.GuardUseMutBorrow, Location: srcLoc("g", 0, 1)},
	}}

	checker.CheckMatch(b, ast.Location{}, []typed.Arm{
		guardedArm(guard, tAny(b)),
		arm(tAny(b)),
	}, MatchSourceNormal)

	assert.Empty(t, log.Reports())
}

func TestMissingBindingModeIsDelayedBug(t *testing.T) {
	checker, log := newTestChecker(nil)

	checker.checkPatternsLegality(false, []typed.Pattern{
		tBind("x", stringType(), nil, nil),
	})

	assert.Empty(t, log.Reports())
	require.Len(t, log.DelayedBugs(), 1)
	assert.Equal(t, "missing binding mode", log.DelayedBugs()[0].Message)
}
