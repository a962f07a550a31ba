package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.yamlcore.dev/yaml/event"
)

func TestKindString(t *testing.T) {
	cases := map[event.Kind]string{
		event.StreamStart:    "StreamStart",
		event.StreamEnd:      "StreamEnd",
		event.DocumentStart:  "DocumentStart",
		event.DocumentEnd:    "DocumentEnd",
		event.Alias:          "Alias",
		event.Scalar:         "Scalar",
		event.SequenceStart:  "SequenceStart",
		event.SequenceEnd:    "SequenceEnd",
		event.MappingStart:   "MappingStart",
		event.MappingEnd:     "MappingEnd",
		event.Kind(9999):     "Unknown",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestEventFieldShape(t *testing.T) {
	ev := event.Event{
		Kind:          event.Scalar,
		Value:         "hello",
		ImplicitPlain: true,
		AnchorID:      3,
		Tag:           "tag:yaml.org,2002:str",
	}
	assert.Equal(t, "hello", ev.Value)
	assert.True(t, ev.ImplicitPlain)
	assert.False(t, ev.ImplicitQuoted)
	assert.Equal(t, 3, ev.AnchorID)
}
