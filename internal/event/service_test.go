package event

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shop-backend/internal/config"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/mq"
)

type mockConsumer struct {
	handlers map[string]mq.HandlerFunc
	ran      bool
}

func newMockConsumer() *mockConsumer {
	return &mockConsumer{handlers: make(map[string]mq.HandlerFunc)}
}

func (m *mockConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	m.handlers[topic] = handler
	return nil
}

func (m *mockConsumer) Run(ctx context.Context) (mq.CleanupFunc, error) {
	m.ran = true
	return func() {}, nil
}

func newTestService(consumer mq.Consumer) (*Service, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return New(config.Alert{LowStockThreshold: 5}, logger, consumer), buf
}

func TestRun_RegistersHandlers(t *testing.T) {
	consumer := newMockConsumer()
	svc, _ := newTestService(consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, consumer.ran)
	assert.Contains(t, consumer.handlers, TopicProductCreated)
	assert.Contains(t, consumer.handlers, TopicStockReserved)
}

func TestStockReservedHandler_WarnsOnLowStock(t *testing.T) {
	consumer := newMockConsumer()
	svc, buf := newTestService(consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	payload, err := json.Marshal(StockReservedEvent{
		CartID:         "c1",
		ProductID:      "p1",
		Quantity:       3,
		RemainingStock: 2,
	})
	require.NoError(t, err)

	require.NoError(t, consumer.handlers[TopicStockReserved](context.Background(), TopicStockReserved, payload))
	assert.Contains(t, buf.String(), "stock is running low")
}

func TestStockReservedHandler_NoWarnAboveThreshold(t *testing.T) {
	consumer := newMockConsumer()
	svc, buf := newTestService(consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	payload, err := json.Marshal(StockReservedEvent{
		CartID:         "c1",
		ProductID:      "p1",
		Quantity:       1,
		RemainingStock: 40,
	})
	require.NoError(t, err)

	require.NoError(t, consumer.handlers[TopicStockReserved](context.Background(), TopicStockReserved, payload))
	assert.NotContains(t, buf.String(), "stock is running low")
}

func TestStockReservedHandler_BadPayload(t *testing.T) {
	consumer := newMockConsumer()
	svc, _ := newTestService(consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	err = consumer.handlers[TopicStockReserved](context.Background(), TopicStockReserved, []byte("{not json"))
	assert.Error(t, err)
}

func TestProductCreatedHandler(t *testing.T) {
	consumer := newMockConsumer()
	svc, buf := newTestService(consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	defer cleanup()

	payload, err := json.Marshal(ProductCreatedEvent{ProductID: "p1", Title: "Pen"})
	require.NoError(t, err)

	require.NoError(t, consumer.handlers[TopicProductCreated](context.Background(), TopicProductCreated, payload))
	assert.Contains(t, buf.String(), "product created")
}
