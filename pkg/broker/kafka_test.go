package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type keyedPayload struct {
	SKU   string `json:"SKU"`
	Stock int    `json:"stock"`
}

func (p keyedPayload) EventKey() string { return p.SKU }

func TestPublishWritesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := &KafkaProducer{writer: w, now: func() time.Time { return fixed }}

	err := p.Publish(context.Background(), "inventory.stock.updated", keyedPayload{SKU: "A1", Stock: 3})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "A1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "inventory.stock.updated", event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.True(t, fixed.Equal(event.Timestamp))

	var payload keyedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, 3, payload.Stock)
}

func TestPublishUnkeyedPayload(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, now: time.Now}

	require.NoError(t, p.Publish(context.Background(), "inventory.items.imported", map[string]int{"count": 2}))
	assert.Nil(t, w.msgs[0].Key)
}

func TestPublishWriterError(t *testing.T) {
	p := &KafkaProducer{writer: &fakeWriter{err: errors.New("broker down")}, now: time.Now}

	err := p.Publish(context.Background(), "inventory.item.deleted", map[string]string{"id": "1"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "anything", nil))
}
