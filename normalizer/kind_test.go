package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{`{type: object}`, KindObject},
		{`{type: array}`, KindArray},
		{`{type: string}`, KindOther},
		{`{type: [object, "null"]}`, KindObject},
		{`{type: [array, object]}`, KindObject | KindArray},
		{`{anyOf: [object]}`, KindObject},
		{`{oneOf: [string, array]}`, KindArray},
		{`{anyOf: [{type: object}]}`, KindOther},
		{`{type: {nested: object}}`, KindOther},
		{`{properties: {type: object}}`, KindOther},
		{`[object]`, KindOther},
		{`object`, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			doc := parseYAML(t, tt.src)
			assert.Equal(t, tt.want, Classify(doc.Content[0]))
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Equal(t, KindOther, Classify(nil))
}

func TestKind_Is(t *testing.T) {
	both := KindObject | KindArray
	assert.True(t, both.Is(KindObject))
	assert.True(t, both.Is(KindArray))
	assert.True(t, KindObject.Is(KindObject))
	assert.False(t, KindObject.Is(KindArray))
	assert.False(t, KindObject.Is(KindOther))
	assert.False(t, KindOther.Is(KindOther))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "object|array", (KindObject | KindArray).String())
}
