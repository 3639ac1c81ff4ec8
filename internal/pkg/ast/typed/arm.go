package typed

import "sable-compiler/internal/pkg/ast"

// GuardUseKind classifies one effect the expression-use walker observed
// while traversing a pattern guard.
type GuardUseKind int

const (
	GuardUseImmBorrow GuardUseKind = iota
	GuardUseUniqueImmBorrow
	GuardUseMutBorrow
	GuardUseInit
	GuardUseWrite
	GuardUseReadWrite
)

type GuardUse struct {
	Kind     GuardUseKind
	Location ast.Location
}

// Guard is a pattern guard, carried as the effect stream recorded by the
// external expression-use walker. The checker never sees the guard body.
type Guard struct {
	ast.Location
	Uses []GuardUse
}

// LoweringError is produced by the lowering collaborator; its presence on
// any arm aborts the matrix phase for the enclosing match.
type LoweringError struct {
	Location ast.Location
	Message  string
}

// Arm is one arm of a match: the top-level alternatives as written
// (or-patterns at the root arrive pre-expanded into the list), an optional
// guard, and whatever errors lowering collected.
type Arm struct {
	Patterns       []Pattern
	Guard          *Guard
	LoweringErrors []LoweringError
}
