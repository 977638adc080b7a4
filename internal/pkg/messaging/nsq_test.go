package messaging

import (
	"testing"
	"time"

	nsq "github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNSQ_ConsumerConfig(t *testing.T) {
	t.Run("configured settings survive and max in flight is raised", func(t *testing.T) {
		// Arrange
		base := nsq.NewConfig()
		base.MaxInFlight = 2
		base.MaxAttempts = 7
		base.DefaultRequeueDelay = 3 * time.Second
		n, err := NewNSQ(NSQConfig{ConsumerLookupdAddrs: []string{"localhost:4161"}, ConsumerConfig: base})
		require.NoError(t, err)

		// Act
		cfg := n.newConsumerConfig(newConsumeOptions(WithGroup("notification"), WithConcurrency(4)))

		// Assert
		assert.Equal(t, 4, cfg.MaxInFlight)
		assert.Equal(t, uint16(7), cfg.MaxAttempts)
		assert.Equal(t, 3*time.Second, cfg.DefaultRequeueDelay)
		assert.Equal(t, 2, base.MaxInFlight)
	})

	t.Run("larger configured max in flight is kept", func(t *testing.T) {
		base := nsq.NewConfig()
		base.MaxInFlight = 50
		n, err := NewNSQ(NSQConfig{ConsumerConfig: base})
		require.NoError(t, err)

		cfg := n.newConsumerConfig(newConsumeOptions(WithConcurrency(4)))

		assert.Equal(t, 50, cfg.MaxInFlight)
	})

	t.Run("defaults without a consumer config", func(t *testing.T) {
		n, err := NewNSQ(NSQConfig{})
		require.NoError(t, err)

		cfg := n.newConsumerConfig(newConsumeOptions())

		assert.Equal(t, nsq.NewConfig().MaxAttempts, cfg.MaxAttempts)
		assert.Equal(t, 1, cfg.MaxInFlight)
	})
}
