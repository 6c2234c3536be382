package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientEvent(t *testing.T) {
	ev, err := ParseClientEvent([]byte(`{"type":"message","to":"user-2","body":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, EventMessage, ev.Type)
	assert.Equal(t, "user-2", ev.To)
	assert.Equal(t, "hi", ev.Body)
}

func TestParseClientEventRejectsBadJSON(t *testing.T) {
	_, err := ParseClientEvent([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestNewErrorEventIsWellFormed(t *testing.T) {
	var ev ServerEvent
	require.NoError(t, json.Unmarshal(NewErrorEvent("nope"), &ev))

	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "nope", ev.Body)
	assert.False(t, ev.Timestamp.IsZero())
}
