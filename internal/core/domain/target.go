package domain

import "go.trai.ch/zerr"

// Target selects the variant of every task and the output root.
type Target string

const (
	// TargetDevelopment builds plain assets into dist/ for the preview server.
	TargetDevelopment Target = "development"
	// TargetProduction builds optimized assets into public/.
	TargetProduction Target = "production"
)

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetDevelopment, TargetProduction:
		return Target(s), nil
	default:
		return "", zerr.With(ErrUnknownTarget, "target", s)
	}
}

// Optimize reports whether tasks should run their optimizing variant.
func (t Target) Optimize() bool {
	return t == TargetProduction
}

// String returns the target name.
func (t Target) String() string {
	return string(t)
}
