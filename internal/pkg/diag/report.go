package diag

import (
	"fmt"
	"strings"

	"sable-compiler/internal/pkg/ast"

	"golang.org/x/exp/slices"
)

type Kind int

const (
	KindNonExhaustiveMatch Kind = iota
	KindNonExhaustiveBinding
	KindUnreachablePattern
	KindIrrefutableLetPattern
	KindBindingShadowsVariant
	KindMoveSubBindings
	KindMoveIntoGuard
	KindMoveAndRefConflict
	KindBindingAfterAt
	KindMutableBorrowInGuard
	KindAssignInGuard
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

type Applicability int

const (
	ApplicabilityUnspecified Applicability = iota
	ApplicabilityMachineApplicable
	ApplicabilityMaybeIncorrect
)

// Label is a secondary span with its own message.
type Label struct {
	Location ast.Location
	Message  string
}

// Suggestion is a textual replacement an editor may apply.
type Suggestion struct {
	Location      ast.Location
	Message       string
	Replacement   string
	Applicability Applicability
}

type Report struct {
	Kind       Kind
	Severity   Severity
	Location   ast.Location
	Message    string
	Labels     []Label
	Help       string
	Suggestion *Suggestion
}

func (r Report) Error() string {
	sb := strings.Builder{}
	cursorString := r.Location.CursorString()
	if cursorString != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", cursorString, r.Message))
	} else {
		sb.WriteString(fmt.Sprintf("%s\n", r.Message))
	}

	var uniqueLabels []Label
	for _, l := range r.Labels {
		if !slices.ContainsFunc(uniqueLabels, func(x Label) bool {
			return x.Location.EqualsTo(l.Location) && x.Message == l.Message
		}) {
			uniqueLabels = append(uniqueLabels, l)
		}
	}
	for _, l := range uniqueLabels {
		sb.WriteString(fmt.Sprintf("+ %s %s\n", l.Location.CursorString(), l.Message))
	}

	if r.Help != "" {
		sb.WriteString(fmt.Sprintf("= help: %s\n", r.Help))
	}
	return sb.String()
}

func (r *Report) Label(loc ast.Location, message string) *Report {
	r.Labels = append(r.Labels, Label{Location: loc, Message: message})
	return r
}
