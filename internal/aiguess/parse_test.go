package aiguess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_ListInProse(t *testing.T) {
	text := `Sure! Here are the likely contacts:

[{"name": "Ana Li", "title": "VP Sales"}, {"name": "Bob Ray", "title": "CTO"}]

Let me know if you need more.`

	res := ExtractJSON(text)
	require.Equal(t, ParsedList, res.Kind)
	assert.Len(t, res.List, 2)
}

func TestExtractJSON_FencedList(t *testing.T) {
	text := "Here you go:\n```json\n[{\"name\": \"Ana Li\"}]\n```\nDone."
	res := ExtractJSON(text)
	require.Equal(t, ParsedList, res.Kind)
	assert.Len(t, res.List, 1)
}

func TestExtractJSON_SingleObject(t *testing.T) {
	res := ExtractJSON(`The pattern is {"pattern": "{first}.{last}"} most likely.`)
	require.Equal(t, ParsedSingle, res.Kind)
	assert.JSONEq(t, `{"pattern": "{first}.{last}"}`, string(res.Single))
}

func TestExtractJSON_ObjectWithNestedArrayParsesAsObject(t *testing.T) {
	res := ExtractJSON(`{"contacts": [{"name": "Ana"}], "count": 1}`)
	assert.Equal(t, ParsedSingle, res.Kind)
}

func TestExtractJSON_BracketsInsideStrings(t *testing.T) {
	res := ExtractJSON(`[{"name": "Ana ] Li", "title": "Head of [Growth]"}]`)
	require.Equal(t, ParsedList, res.Kind)
	assert.Len(t, res.List, 1)
}

func TestExtractJSON_Unparseable(t *testing.T) {
	for _, text := range []string{
		"",
		"I could not find any contacts for that company.",
		"broken [ json { here",
		"[1, 2,",
	} {
		res := ExtractJSON(text)
		assert.Equal(t, Unparseable, res.Kind, "text %q", text)
	}
}
