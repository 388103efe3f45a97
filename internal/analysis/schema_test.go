package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor_RequiredAndClosed(t *testing.T) {
	raw, err := json.Marshal(SchemaFor[widget]())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.ElementsMatch(t, []any{"name", "count", "tags"}, doc["required"])
}

func TestConform(t *testing.T) {
	compiled, err := compileSchema(SchemaFor[widget]())
	require.NoError(t, err)

	doc, repaired, err := conform(compiled, `{"name":"a","count":0,"tags":[]}`)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.JSONEq(t, `{"name":"a","count":0,"tags":[]}`, doc)

	doc, repaired, err = conform(compiled, `sure! {"name":"a","count":0,"tags":[]} hope that helps`)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.JSONEq(t, `{"name":"a","count":0,"tags":[]}`, doc)

	_, _, err = conform(compiled, `{"name":"a"}`)
	assert.Error(t, err)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Result: {"a":{"b":2}} done`, `{"a":{"b":2}}`},
		{"no object", `nothing here`, `nothing here`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello", cleanText(`  "hello" `))
	assert.Equal(t, "hello", cleanText(`'hello'`))
	assert.Equal(t, `"hello`, cleanText(`"hello`))
	assert.Empty(t, cleanText("   "))
}
