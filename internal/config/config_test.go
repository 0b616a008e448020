package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP  HTTP
	Mongo Mongo
	Redis Redis
	Kafka Kafka
	Alert Alert
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "shop")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_ADDRESSES", "localhost:9092")
	t.Setenv("KAFKA_GROUP", "shop-backend")

	cfg, err := New[testConfig]()
	require.NoError(t, err)

	assert.Equal(t, uint32(8000), cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Swagger)
	assert.Equal(t, uint64(100), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 5, cfg.Alert.LowStockThreshold)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DATABASE", "shop")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("KAFKA_ADDRESSES", "broker-1:9092,broker-2:9092")
	t.Setenv("KAFKA_GROUP", "shop-backend")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ALERT_LOW_STOCK_THRESHOLD", "2")

	cfg, err := New[testConfig]()
	require.NoError(t, err)

	assert.Equal(t, uint32(9000), cfg.HTTP.Port)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Addresses)
	assert.Equal(t, 2, cfg.Alert.LowStockThreshold)
}

func TestNew_MissingRequired(t *testing.T) {
	_, err := New[Mongo]()
	assert.Error(t, err)
}
