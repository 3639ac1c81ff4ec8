package lsp

import (
	"sort"

	"sable-compiler/internal/pkg/ast"
	"sable-compiler/internal/pkg/common"
	"sable-compiler/internal/pkg/diag"

	"pkg.nimblebun.works/go-lsp"
)

const diagnosticSource = "sable-match"

// ExtractDiagnostics converts the reports of one checking pass into
// publishable LSP payloads, one per affected document. Delayed compiler
// bugs are included so they surface in the editor distinctly from user
// diagnostics.
func ExtractDiagnostics(log *diag.Log) []lsp.PublishDiagnosticsParams {
	data := map[lsp.DocumentURI][]lsp.Diagnostic{}

	for _, report := range log.Reports() {
		uri := documentURI(report.Location)
		data[uri] = append(data[uri], toDiagnostic(report))
	}
	for _, bug := range log.DelayedBugs() {
		uri := documentURI(bug.Location)
		data[uri] = append(data[uri], lsp.Diagnostic{
			Range:    locationRange(bug.Location),
			Severity: lsp.DSError,
			Source:   diagnosticSource,
			Message:  "internal error: " + bug.Message,
		})
	}

	var uris []lsp.DocumentURI
	for uri := range data {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })

	return common.Map(func(uri lsp.DocumentURI) lsp.PublishDiagnosticsParams {
		return lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: data[uri]}
	}, uris)
}

func toDiagnostic(report diag.Report) lsp.Diagnostic {
	severity := lsp.DSError
	if report.Severity == diag.SeverityWarning {
		severity = lsp.DSWarning
	}

	message := report.Message
	if report.Help != "" {
		message += "\nhelp: " + report.Help
	}
	if report.Suggestion != nil {
		message += "\n" + report.Suggestion.Message + ": `" + report.Suggestion.Replacement + "`"
	}

	return lsp.Diagnostic{
		Range:    locationRange(report.Location),
		Severity: severity,
		Source:   diagnosticSource,
		Message:  message,
		RelatedInformation: common.Map(func(label diag.Label) lsp.DiagnosticRelatedInformation {
			return lsp.DiagnosticRelatedInformation{
				Location: lsp.Location{
					URI:   documentURI(label.Location),
					Range: locationRange(label.Location),
				},
				Message: label.Message,
			}
		}, report.Labels),
	}
}

func documentURI(loc ast.Location) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + loc.FilePath())
}

func locationRange(loc ast.Location) lsp.Range {
	startLine, startColumn, endLine, endColumn := loc.GetLineAndColumn()
	if endLine < startLine || (endLine == startLine && endColumn <= startColumn) {
		endLine, endColumn = startLine, startColumn+1
	}
	return lsp.Range{
		Start: lsp.Position{Line: startLine - 1, Character: startColumn - 1},
		End:   lsp.Position{Line: endLine - 1, Character: endColumn - 1},
	}
}
