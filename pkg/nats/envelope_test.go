package nats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "armory.INSIGHT_COMPLETED", Subject("INSIGHT_COMPLETED"))
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(envelope{
		Type:       "EQUIPMENT_SELECTED",
		Data:       map[string]interface{}{"equipment_id": "sabre-01"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	event, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "EQUIPMENT_SELECTED", event.EventType())
	assert.Equal(t, "sabre-01", event.Payload()["equipment_id"])
	assert.True(t, at.Equal(event.Timestamp()))
}

func TestDecodeEventRejectsMissingType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}
