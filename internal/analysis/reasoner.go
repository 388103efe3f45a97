package analysis

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
)

// ErrIncomplete marks a reply the service cut off before it finished.
var ErrIncomplete = eris.New("analysis: incomplete reply")

// Prompt is one request to a reasoning service.
type Prompt struct {
	System     string
	User       string
	SchemaName string
	// Schema is the required output shape. Nil asks for free text.
	Schema *jsonschema.Schema
}

// Reasoner sends a prompt to an external generative reasoning service and
// returns the raw text it produced. Implementations make exactly one
// outbound call and never retry.
type Reasoner interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}
