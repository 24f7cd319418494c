package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("account.registered", "user-1", "account", "account-service", samplePayload{
		ID:   "user-1",
		Name: "alice",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "account.registered", event.EventType)
	assert.Equal(t, "user-1", event.AggregateID)
	assert.Equal(t, "account", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEventDataRoundTrip(t *testing.T) {
	event, err := NewEvent("account.registered", "user-1", "account", "account-service", samplePayload{
		ID:   "user-1",
		Name: "alice",
	})
	require.NoError(t, err)

	var got samplePayload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, "alice", got.Name)
}

func TestNewEventRejectsUnmarshalableData(t *testing.T) {
	_, err := NewEvent("bad", "id", "account", "src", make(chan int))
	require.Error(t, err)
}

func TestWithCorrelationID(t *testing.T) {
	event, err := NewEvent("account.logged_in", "user-1", "account", "account-service", samplePayload{})
	require.NoError(t, err)

	event.WithCorrelationID("corr-1")
	assert.Equal(t, "corr-1", event.CorrelationID)

	data, err := event.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correlation_id":"corr-1"`)
}
