package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sable-compiler/internal/pkg/ast"
)

func testLoc(start, end uint32) ast.Location {
	return ast.NewLocation("main.sb", []rune("match x {\n}\n"), start, end)
}

func TestReportError(t *testing.T) {
	report := Report{
		Severity: SeverityError,
		Location: testLoc(6, 7),
		Message:  "non-exhaustive patterns: `Blue` not covered",
		Help:     "add a wildcard arm",
	}
	report.Label(testLoc(0, 5), "in this match")

	text := report.Error()
	assert.True(t, strings.HasPrefix(text, "main.sb:1:7 non-exhaustive patterns"))
	assert.Contains(t, text, "+ main.sb:1:1 in this match")
	assert.Contains(t, text, "= help: add a wildcard arm")
}

func TestReportErrorWithoutLocation(t *testing.T) {
	report := Report{Message: "something failed"}
	assert.Equal(t, "something failed\n", report.Error())
}

func TestReportDeduplicatesLabels(t *testing.T) {
	report := Report{Message: "m"}
	report.Label(testLoc(0, 5), "same span")
	report.Label(testLoc(0, 5), "same span")
	report.Label(testLoc(0, 5), "other message")

	text := report.Error()
	assert.Equal(t, 1, strings.Count(text, "same span"))
	assert.Equal(t, 1, strings.Count(text, "other message"))
}

func TestLogSeverityFilters(t *testing.T) {
	log := &Log{}
	log.Report(Report{Severity: SeverityError, Message: "e"})
	log.Report(Report{Severity: SeverityWarning, Message: "w"})

	assert.Len(t, log.Reports(), 2)
	require.Len(t, log.Errors(), 1)
	assert.Equal(t, "e", log.Errors()[0].Message)
	require.Len(t, log.Warnings(), 1)
	assert.Equal(t, "w", log.Warnings()[0].Message)
	assert.True(t, log.HasErrors())
}

func TestDelayedBugsKeptApart(t *testing.T) {
	log := &Log{}
	log.Delay(testLoc(0, 5), "missing binding mode")

	assert.Empty(t, log.Reports())
	assert.False(t, log.HasErrors())
	require.Len(t, log.DelayedBugs(), 1)
	assert.Equal(t, "main.sb:1:1 compiler bug: missing binding mode", log.DelayedBugs()[0].Error())
}

func TestFlushDrainsLog(t *testing.T) {
	log := &Log{}
	log.Report(Report{Severity: SeverityError, Message: "boom"})
	log.Delay(ast.Location{}, "broken invariant")

	var sb strings.Builder
	log.Flush(&sb)

	assert.Contains(t, sb.String(), "boom")
	assert.Contains(t, sb.String(), "compiler bug: broken invariant")
	assert.Empty(t, log.Reports())
	assert.Empty(t, log.DelayedBugs())
}
