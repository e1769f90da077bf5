package diagnostics

import "strings"

// AttachNote inspects a raw phase error message and, when it recognizes one of
// a handful of canonical natural-language slips, appends an actionable note.
// This mapping is part of the spec: canonical inputs get canonical notes so
// the test suite can assert exact wording.
func AttachNote(d *Diagnostic) *Diagnostic {
	msg := strings.ToLower(d.Message)

	switch {
	case strings.Contains(msg, "expected variable name") || strings.Contains(msg, "missing variable name before 'as'"):
		d.WithNote("You must provide a variable name before 'as' (e.g. store x as 3)")

	case strings.Contains(msg, "undefined variable") || strings.Contains(msg, "undefined identifier"):
		d.WithNote("Did you misspell the variable name or forget to declare it with 'store'?")

	case strings.Contains(msg, "already defined") || strings.Contains(msg, "already declared"):
		d.WithNote("Variables must have unique names within the same scope")

	case strings.Contains(msg, "divide by zero") || strings.Contains(msg, "division by zero"):
		d.WithNote("Check your divisor to ensure it's never zero")

	case strings.Contains(msg, "index out of") || strings.Contains(msg, "out of bounds"):
		d.WithNote("Make sure your index is within the valid range of the list")

	case strings.Contains(msg, "file not found") || strings.Contains(msg, "no such file"):
		d.WithNote("Verify that the file exists and the path is correct")

	case strings.Contains(msg, "not implemented"):
		d.WithNote("This feature is not implemented in the current build")

	case strings.Contains(msg, "expected number") && strings.Contains(msg, "text"):
		d.WithNote("Try converting the text to a number using 'convert to number'")

	case strings.Contains(msg, "expected text") && strings.Contains(msg, "number"):
		d.WithNote("Try converting the number to text using 'convert to text'")

	case strings.Contains(msg, "environment") && strings.Contains(msg, "dropped"):
		d.WithNote("The scope that defined this action no longer exists; its closure cannot be called")
	}

	return d
}
