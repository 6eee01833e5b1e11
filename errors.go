package typeforge

import (
	"strconv"
	"strings"

	"typeforge/internal/diag"
)

// FormatErrors renders diagnostics as human-readable text, one per
// diagnostic, in the shape "Error (line N): message" with the offending
// source line quoted underneath when source is available.
func FormatErrors(errors []diag.Diagnostic, source string) string {
	if len(errors) == 0 {
		return ""
	}
	lines := strings.Split(source, "\n")

	var b strings.Builder
	for i, d := range errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		lineNo := d.Span.Start.Line
		label := "Error"
		if d.Severity == diag.Warning {
			label = "Warning"
		}
		b.WriteString(label)
		b.WriteString(" (line ")
		b.WriteString(strconv.Itoa(lineNo))
		b.WriteString("): ")
		b.WriteString(d.Message)
		if source != "" && lineNo >= 1 && lineNo <= len(lines) {
			b.WriteByte('\n')
			b.WriteString("  ")
			b.WriteString(strconv.Itoa(lineNo))
			b.WriteString(" | ")
			b.WriteString(lines[lineNo-1])
		}
	}
	return b.String()
}
