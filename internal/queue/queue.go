package queue

import (
	"fmt"
	"sync"
)

// TopicDispatch carries dispatch jobs from campaign intake to the
// dispatcher. Jobs are published only after the recipient snapshot has
// committed.
const TopicDispatch = "campaign.dispatch"

// Queue decouples the intake path from dispatch execution. Payloads are
// raw bytes so the same jobs flow through the in-memory queue and AMQP
// unchanged.
type Queue interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(payload []byte) error) error
}

// InMemoryQueue delivers each published payload to every subscriber on
// its own goroutine. There is no redelivery: a dispatch job is triggered
// at most once, and the campaign status guard makes a duplicate trigger
// harmless anyway.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload []byte) error
	wg       sync.WaitGroup
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload []byte) error),
	}
}

func (q *InMemoryQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		h := handler
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			_ = h(payload)
		}()
	}
	return nil
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every in-flight delivery has finished. Test helper.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}
