package domain

import "go.trai.ch/zerr"

// Kind classifies what a task produces.
type Kind uint8

const (
	// KindTransform tasks read input files and write output files.
	KindTransform Kind = iota
	// KindSideEffect tasks change the file system without producing artifacts (e.g. clean).
	KindSideEffect
)

// String returns the kind name used in logs and spans.
func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindSideEffect:
		return "side-effect"
	default:
		return "unknown"
	}
}

// Action names the leaf operation that executes a task.
type Action string

const (
	// ActionClean removes the output root.
	ActionClean Action = "clean"
	// ActionHTML copies page markup.
	ActionHTML Action = "html"
	// ActionStyles compiles and bundles stylesheets.
	ActionStyles Action = "styles"
	// ActionScripts concatenates (and minifies) scripts.
	ActionScripts Action = "scripts"
	// ActionImages copies (and recompresses) images.
	ActionImages Action = "images"
)

// Actions lists every known action in pipeline order.
var Actions = []Action{ActionClean, ActionHTML, ActionStyles, ActionScripts, ActionImages}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", zerr.With(ErrUnknownAction, "action", s)
}

// Task is an immutable unit of work in a pipeline.
// Tasks are declared as data; the executor looks up the operation by Action.
type Task struct {
	Name         InternedString
	Kind         Kind
	Action       Action
	Target       Target
	Inputs       []InternedString
	Output       InternedString
	Dependencies []InternedString
}

// NewTask builds a task for the given action and target.
// Clean is the only side-effect action.
func NewTask(action Action, target Target, inputs []string, output string) Task {
	kind := KindTransform
	if action == ActionClean {
		kind = KindSideEffect
	}
	return Task{
		Name:   NewInternedString(string(action)),
		Kind:   kind,
		Action: action,
		Target: target,
		Inputs: NewInternedStrings(inputs),
		Output: NewInternedString(output),
	}
}

// InputPatterns returns the task's input globs as strings.
func (t Task) InputPatterns() []string {
	return Strings(t.Inputs)
}
