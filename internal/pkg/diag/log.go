package diag

import (
	"fmt"
	"io"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/common"
)

// DelayedBug records a broken internal invariant, usually a defect in an
// upstream collaborator. It is kept apart from user reports so a wrong
// exhaustiveness verdict is never silently presented as user error.
type DelayedBug struct {
	Location ast.Location
	Message  string
}

func (b DelayedBug) Error() string {
	cursor := b.Location.CursorString()
	if cursor == "" {
		return fmt.Sprintf("compiler bug: %s", b.Message)
	}
	return fmt.Sprintf("%s compiler bug: %s", cursor, b.Message)
}

// Log accumulates the reports of one checking pass.
type Log struct {
	reports []Report
	delayed []DelayedBug
}

func (l *Log) Report(r Report) {
	l.reports = append(l.reports, r)
}

func (l *Log) Delay(loc ast.Location, message string) {
	l.delayed = append(l.delayed, DelayedBug{Location: loc, Message: message})
}

func (l *Log) Reports() []Report {
	return l.reports
}

func (l *Log) Errors() []Report {
	return l.bySeverity(SeverityError)
}

func (l *Log) Warnings() []Report {
	return l.bySeverity(SeverityWarning)
}

func (l *Log) bySeverity(s Severity) []Report {
	return common.MapIf(func(r Report) (Report, bool) { return r, r.Severity == s }, l.reports)
}

func (l *Log) DelayedBugs() []DelayedBug {
	return l.delayed
}

func (l *Log) HasErrors() bool {
	for _, r := range l.reports {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l *Log) Flush(w io.Writer) {
	for _, r := range l.reports {
		_, _ = io.WriteString(w, r.Error())
	}
	for _, b := range l.delayed {
		_, _ = fmt.Fprintln(w, b.Error())
	}
	l.reports = nil
	l.delayed = nil
}
