package analysis

// FallbackPolicy decides what a call-site gets when analysis fails. Each
// orchestrator picks its own policy; there is no global default.
type FallbackPolicy[T any] struct {
	message  string
	fallback func() T
}

// Propagate surfaces failures as an *apperr.Error carrying message.
func Propagate[T any](message string) FallbackPolicy[T] {
	return FallbackPolicy[T]{message: message}
}

// Substitute replaces failures with the value built by fallback.
func Substitute[T any](fallback func() T) FallbackPolicy[T] {
	return FallbackPolicy[T]{fallback: fallback}
}

// Substitutes reports whether the policy swallows failures.
func (p FallbackPolicy[T]) Substitutes() bool {
	return p.fallback != nil
}

// Message is the user-facing text for propagated failures.
func (p FallbackPolicy[T]) Message() string {
	if p.message == "" {
		return "Analysis failed. Please try again."
	}
	return p.message
}

// Result is a successful (or substituted) analysis.
type Result[T any] struct {
	Value T
	// Repaired is set when the raw response needed the repair pass.
	Repaired bool
	// Fallback is set when Value came from the policy, not the service.
	Fallback bool
}
