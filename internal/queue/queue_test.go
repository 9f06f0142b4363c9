package queue_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorydiv/fojournapp-sub001/internal/queue"
)

func TestInMemoryQueueDeliversToSubscriber(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var mu sync.Mutex
	received := [][]byte{}
	err := q.Subscribe(queue.TopicDispatch, func(payload []byte) error {
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(queue.TopicDispatch, []byte(`{"campaign_id":7}`)))
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, `{"campaign_id":7}`, string(received[0]))
}

func TestInMemoryQueuePublishWithoutSubscriberFails(t *testing.T) {
	q := queue.NewInMemoryQueue()

	err := q.Publish(queue.TopicDispatch, []byte(`{}`))
	assert.Error(t, err)
}

func TestInMemoryQueueFansOut(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var mu sync.Mutex
	count := 0
	handler := func(payload []byte) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}

	require.NoError(t, q.Subscribe(queue.TopicDispatch, handler))
	require.NoError(t, q.Subscribe(queue.TopicDispatch, handler))

	require.NoError(t, q.Publish(queue.TopicDispatch, []byte(`{}`)))
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}
