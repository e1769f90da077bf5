package diagnostics

import (
	"fmt"
	"strings"
)

// Report collects diagnostics from every phase of a single run. Later phases
// only execute if earlier ones produced no Error-severity diagnostics (the
// caller decides this; Report itself is a passive collector).
type Report struct {
	FileName string
	Source   string
	items    []*Diagnostic
}

// NewReport creates a Report bound to one source file's text, used to extract
// source lines for rendering.
func NewReport(fileName, source string) *Report {
	return &Report{FileName: fileName, Source: source}
}

// Push appends a diagnostic to the report.
func (r *Report) Push(d *Diagnostic) {
	r.items = append(r.items, d)
}

// Diagnostics returns all collected diagnostics in insertion order.
func (r *Report) Diagnostics() []*Diagnostic {
	return r.items
}

// HasErrors reports whether any collected diagnostic is Error severity.
func (r *Report) HasErrors() bool {
	for _, d := range r.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len reports the number of collected diagnostics.
func (r *Report) Len() int {
	return len(r.items)
}

// sourceLine returns the 1-indexed line of text, or "" if out of range.
func (r *Report) sourceLine(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	lines := strings.Split(r.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Render formats one diagnostic as terminal-friendly text: a header, the
// offending source line, a caret under the span, the message, and any notes.
func (r *Report) Render(d *Diagnostic) string {
	var sb strings.Builder

	if r.FileName != "" {
		fmt.Fprintf(&sb, "%s: %s[%s]: %s\n", r.FileName, d.Severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(&sb, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)
	}

	if d.Line > 0 {
		line := r.sourceLine(d.Line)
		if line != "" {
			prefix := fmt.Sprintf("%4d | ", d.Line)
			fmt.Fprintf(&sb, "%s%s\n", prefix, line)
			col := d.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
			sb.WriteString("^")
			if len(d.Labels) > 0 && d.Labels[0].Message != "" && d.Labels[0].Message != "here" {
				sb.WriteString(" ")
				sb.WriteString(d.Labels[0].Message)
			}
			sb.WriteString("\n")
		}
	}

	for _, note := range d.Notes {
		fmt.Fprintf(&sb, "  = note: %s\n", note)
	}

	return sb.String()
}

// RenderAll renders every collected diagnostic, separated by blank lines.
func (r *Report) RenderAll() string {
	var sb strings.Builder
	for i, d := range r.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Render(d))
	}
	return sb.String()
}
