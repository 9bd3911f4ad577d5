package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherUnreachableBrokerFailsFast(t *testing.T) {
	start := time.Now()
	pub, err := NewPublisher("nats://127.0.0.1:1")

	require.Error(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, err.Error(), "unreachable")
	assert.Less(t, time.Since(start), 2*time.Second)
}
