package translate

import "context"

// Translator is the capability both translation strategies implement.
// Callers guarantee source != target; implementations return the text
// unchanged if that precondition is violated.
type Translator interface {
	Translate(ctx context.Context, text string, source, target Language) (string, error)
}
