package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, "place-resolver/1.0", cfg.NominatimUserAgent)
	assert.Equal(t, "es", cfg.GeocoderLanguage)
	assert.Equal(t, 10, cfg.GeocoderZoom)
	assert.Equal(t, 8*time.Second, cfg.GeocoderTimeout)

	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "media-uploaded", cfg.KafkaSourceTopic)
	assert.Equal(t, "media-located", cfg.KafkaSinkTopic)
	assert.Equal(t, "place-resolver", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("NOMINATIM_URL", "http://nominatim.internal:8080/")
	t.Setenv("NOMINATIM_USER_AGENT", "gallery-test/2.0")
	t.Setenv("GEOCODER_LANGUAGE", "pt-br")
	t.Setenv("GEOCODER_ZOOM", "14")
	t.Setenv("GEOCODER_TIMEOUT", "5s")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_SIZE", "500")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://nominatim.internal:8080", cfg.NominatimURL)
	assert.Equal(t, "gallery-test/2.0", cfg.NominatimUserAgent)
	assert.Equal(t, "pt-BR", cfg.GeocoderLanguage)
	assert.Equal(t, 14, cfg.GeocoderZoom)
	assert.Equal(t, 5*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 500, cfg.CacheSize)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_ValidationErrorsNameTheVariable(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration"},
		{"GEOCODER_TIMEOUT", "bad"},
		{"GEOCODER_TIMEOUT", "0s"},
		{"GEOCODER_ZOOM", "19"},
		{"GEOCODER_ZOOM", "ten"},
		{"GEOCODER_LANGUAGE", "not a language!"},
		{"CACHE_TTL", "-5m"},
		{"CACHE_SIZE", "0"},
		{"CACHE_BACKEND", "memcached"},
		{"REDIS_DB", "primary"},
		{"KAFKA_ENABLED", "maybe"},
		{"NOMINATIM_USER_AGENT", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaSettingsIgnoredWhenDisabled(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CacheDisabled(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "none")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CacheNone, cfg.CacheBackend)
}
