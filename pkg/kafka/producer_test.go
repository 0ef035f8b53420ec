package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishBatchEncodesValues(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gzip")

	err := p.PublishBatch(context.Background(), "bars", []Message{
		{Key: []byte("a"), Value: "raw"},
		{Key: []byte("b"), Value: map[string]int{"n": 1}},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "bars", w.msgs[0].Topic)
	assert.Equal(t, []byte("raw"), w.msgs[0].Value)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[1].Value))
	assert.Equal(t, []byte("b"), w.msgs[1].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewProducerWithWriter(&recordingWriter{err: boom}, "gzip")

	err := p.Publish(context.Background(), "bars", []byte("k"), "v")
	assert.ErrorIs(t, err, boom)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestPublishBatchEmpty(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gzip")
	require.NoError(t, p.PublishBatch(context.Background(), "bars", nil))
	assert.Empty(t, w.msgs)
}
