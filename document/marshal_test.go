package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestMarshalJSON_PreservesOrder(t *testing.T) {
	doc, err := Parse([]byte(`{"b": 1, "a": {"d": true, "c": null}, "e": ["x", 2.5], "f": {}, "g": []}`))
	require.NoError(t, err)

	got, err := MarshalJSON(doc.Node)
	require.NoError(t, err)
	want := `{
  "b": 1,
  "a": {
    "d": true,
    "c": null
  },
  "e": [
    "x",
    2.5
  ],
  "f": {},
  "g": []
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshalJSON_FromYAML(t *testing.T) {
	doc, err := Parse([]byte(`
description: "<b>bold</b> & more"
version: "25.04"
count: 3
`))
	require.NoError(t, err)

	got, err := Marshal(doc.Node, SourceFormatJSON)
	require.NoError(t, err)
	want := `{
  "description": "<b>bold</b> & more",
  "version": "25.04",
  "count": 3
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshalJSON_ResolvesAliases(t *testing.T) {
	doc, err := Parse([]byte("base: &b {type: string}\nother: *b\n"))
	require.NoError(t, err)

	got, err := MarshalJSON(doc.Node)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base": {"type": "string"}, "other": {"type": "string"}}`, string(got))
}

func TestMarshalJSON_Nil(t *testing.T) {
	got, err := MarshalJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(got))
}

func TestMarshalYAML(t *testing.T) {
	src := "type: array\nitems:\n  type: string\n"
	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	got, err := Marshal(doc.Node, SourceFormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(got), "items:\n  type: string")

	var roundTrip, original any
	require.NoError(t, yaml.Unmarshal(got, &roundTrip))
	require.NoError(t, yaml.Unmarshal([]byte(src), &original))
	assert.Equal(t, original, roundTrip)
}

func TestMarshal_UnknownFormatIsYAML(t *testing.T) {
	doc, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	got, err := Marshal(doc.Node, SourceFormatUnknown)
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, yaml.Unmarshal(got, &v))
	assert.Equal(t, map[string]any{"a": 1}, v)
}

func TestMarshalYAML_Nil(t *testing.T) {
	got, err := MarshalYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
