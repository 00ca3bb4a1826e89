package domain

import "fmt"

// SourceError locates a syntax error reported by a compiler or minifier.
// Line and Column are 1-based; zero means unknown.
type SourceError struct {
	File   string
	Line   int
	Column int
	Text   string
}

// Error implements error.
func (e *SourceError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Text)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Text)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Text)
	default:
		return e.Text
	}
}

// Unwrap makes errors.Is(err, ErrSourceSyntax) hold for every SourceError.
func (e *SourceError) Unwrap() error {
	return ErrSourceSyntax
}
