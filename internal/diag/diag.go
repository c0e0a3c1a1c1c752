// Package diag implements morph's structured diagnostics (spec §7):
// severity, an error-kind tag, a source excerpt with a caret, and an
// optional "did you mean?" hint. The caret-pointing formatter follows the
// teacher's CompilerError (internal/errors/errors.go in go-dws) almost
// line for line; only the taxonomy and the suggestion mechanism are new.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/morphcli/morph/internal/token"
)

// Kind tags a Diagnostic with morph's error taxonomy (spec §7).
type Kind string

const (
	KindLex    Kind = "LexError"
	KindParse  Kind = "ParseError"
	KindPath   Kind = "PathError"
	KindType   Kind = "TypeError"
	KindCast   Kind = "CastError"
	KindSort   Kind = "SortError"
	KindRead   Kind = "ReadError"
	KindWrite  Kind = "WriteError"
	KindUsage  Kind = "UsageError"
)

// Severity distinguishes a hard failure from a recoverable per-record
// warning (spec §7: --skip-errors mode downgrades some kinds to warnings).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single structured error or warning.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Hint     string // "did you mean ...?" suggestion, if any
	Source   string
	File     string
	Pos      token.Position
}

// New builds an error-severity Diagnostic.
func New(kind Kind, pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityError, Message: message, Source: source, File: file, Pos: pos}
}

// Warning builds a warning-severity Diagnostic, used for recoverable
// per-record failures under --skip-errors.
func Warning(kind Kind, pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Kind: kind, Severity: SeverityWarning, Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a one-line source excerpt and a caret
// pointing at the offending column. If color is true, ANSI codes highlight
// the severity and caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(d.header())

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+maxInt(d.Pos.Column-1, 0)))
		writeColor(&sb, color, "\033[1;31m")
		sb.WriteString("^")
		writeColor(&sb, color, "\033[0m")
		sb.WriteString("\n")
	}

	writeColor(&sb, color, "\033[1m")
	sb.WriteString(d.Message)
	writeColor(&sb, color, "\033[0m")

	if d.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString("  did you mean ")
		sb.WriteString(d.Hint)
		sb.WriteString("?")
	}

	return sb.String()
}

// FormatWithContext renders the diagnostic with contextLines of source on
// either side of the error line, the error line itself highlighted.
func (d *Diagnostic) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder
	sb.WriteString(d.header())

	lines := d.sourceContext(d.Pos.Line, contextLines, contextLines)
	if len(lines) == 0 {
		return d.Format(color)
	}

	startLine := d.Pos.Line - contextLines
	if startLine < 1 {
		startLine = 1
	}

	for i, line := range lines {
		current := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", current)
		if current == d.Pos.Line {
			writeColor(&sb, color, "\033[1m")
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			writeColor(&sb, color, "\033[0m")
			sb.WriteString("\n")

			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+maxInt(d.Pos.Column-1, 0)))
			writeColor(&sb, color, "\033[1;31m")
			sb.WriteString("^")
			writeColor(&sb, color, "\033[0m")
			sb.WriteString("\n")
		} else {
			writeColor(&sb, color, "\033[2m")
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			writeColor(&sb, color, "\033[0m")
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	writeColor(&sb, color, "\033[1m")
	sb.WriteString(d.Message)
	writeColor(&sb, color, "\033[0m")

	if d.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString("  did you mean ")
		sb.WriteString(d.Hint)
		sb.WriteString("?")
	}

	return sb.String()
}

func (d *Diagnostic) header() string {
	if d.File != "" {
		return fmt.Sprintf("%s: %s:%d:%d\n", d.Kind, d.File, d.Pos.Line, d.Pos.Column)
	}
	return fmt.Sprintf("%s: line %d:%d\n", d.Kind, d.Pos.Line, d.Pos.Column)
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func (d *Diagnostic) sourceContext(lineNum, before, after int) []string {
	if d.Source == "" {
		return nil
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}
	start := lineNum - before
	if start < 1 {
		start = 1
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end]
}

func writeColor(sb *strings.Builder, enabled bool, code string) {
	if enabled {
		sb.WriteString(code)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatAll renders a batch of diagnostics, one after another, with a
// summary header when there is more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d problem(s) found:\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Suggest returns the candidate closest to name by Wagner-Fischer edit
// distance, for "did you mean?" hints (spec §4.2, §7). It returns "" if no
// candidate is within maxDistance edits.
func Suggest(name string, candidates []string, maxDistance int) string {
	best := ""
	bestDist := maxDistance + 1
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, c := range sorted {
		dist := smetrics.WagnerFischer(name, c, 1, 1, 1)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
