package analysis

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaFor derives the output schema of T. Objects reject unknown
// properties and nested types are inlined.
func SchemaFor[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// SchemaJSON renders a schema for embedding in a prompt.
func SchemaJSON(s *jsonschema.Schema) string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// compileSchema prepares a reflected schema for validation. The draft
// markers are dropped so the validator does not try to resolve them.
func compileSchema(s *jsonschema.Schema) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: marshal schema")
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "analysis: decode schema")
	}
	delete(doc, "$schema")
	delete(doc, "$id")

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, eris.Wrap(err, "analysis: compile schema")
	}
	return compiled, nil
}

// validateDocument checks text against the compiled schema.
func validateDocument(schema *gojsonschema.Schema, text string) error {
	if strings.TrimSpace(text) == "" {
		return eris.New("analysis: empty response")
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return eris.Wrap(err, "analysis: parse response")
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return eris.Errorf("analysis: response failed schema: %s", strings.Join(errs, "; "))
	}
	return nil
}

// conform validates text, then tries one repair pass. It returns the
// document that passed and whether repair was needed.
func conform(schema *gojsonschema.Schema, text string) (string, bool, error) {
	firstErr := validateDocument(schema, text)
	if firstErr == nil {
		return text, false, nil
	}

	repaired := cleanJSON(text)
	if repaired == text {
		return "", false, firstErr
	}
	if err := validateDocument(schema, repaired); err != nil {
		return "", false, eris.Wrap(err, "analysis: repaired response still invalid")
	}
	return repaired, true, nil
}
