package eventsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	evt := BuildEvent{Kind: TaskFinished, TaskName: "Compile:m.c", Success: true, ElapsedMillis: 12}
	data, err := c.Marshal(&evt)
	require.NoError(t, err)

	var out BuildEvent
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, evt, out)
}
