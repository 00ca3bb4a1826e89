package domain

import "github.com/bmatcuk/doublestar/v4"

// Binding associates project-relative globs with the pipeline that must re-run
// when a matching path changes. A reload notification always follows a
// successful run.
type Binding struct {
	Name     string
	Patterns []InternedString
	Pipeline *Pipeline
}

// NewBinding creates a binding.
func NewBinding(name string, patterns []string, pipeline *Pipeline) Binding {
	return Binding{
		Name:     name,
		Patterns: NewInternedStrings(patterns),
		Pipeline: pipeline,
	}
}

// Matches reports whether the slash-separated, project-relative path matches
// any of the binding's patterns.
func (b *Binding) Matches(relPath string) bool {
	for _, p := range b.Patterns {
		if ok, _ := doublestar.Match(p.String(), relPath); ok {
			return true
		}
	}
	return false
}
