// internal/aiplan/outcome.go
package aiplan

// Outcome is the result of one plan-generation request against the provider.
// It is a closed set of two variants: the payload either parsed into the
// expected structured shape, or it must be handled as unstructured prose.
// Consumers branch with a type switch; no third variant is representable.
type Outcome interface {
	isOutcome()
}

// Structured carries a successfully parsed key-value payload. The shape is
// not yet validated; that is the structured normalizer's job.
type Structured struct {
	Data map[string]any
}

// FreeText carries any provider result (or absence of a provider) that must
// be handled as plain text: the deterministic fallback plan, an
// error-annotated message, or a raw unparseable payload.
type FreeText struct {
	Text string
}

func (Structured) isOutcome() {}
func (FreeText) isOutcome()   {}
