//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/place-resolver/internal/adapter/cache"
	"github.com/couchcryptid/place-resolver/internal/adapter/kafka"
	"github.com/couchcryptid/place-resolver/internal/adapter/nominatim"
	"github.com/couchcryptid/place-resolver/internal/config"
	"github.com/couchcryptid/place-resolver/internal/domain"
	"github.com/couchcryptid/place-resolver/internal/observability"
	"github.com/couchcryptid/place-resolver/internal/pipeline"
	"github.com/couchcryptid/place-resolver/internal/resolver"
)

const (
	testSourceTopic = "test-media-uploaded"
	testSinkTopic   = "test-media-located"
)

// locatedMessage holds a deserialized message read from the sink topic.
type locatedMessage struct {
	Event   domain.LocatedMediaEvent
	Key     string
	Headers map[string]string
}

// readLocated reads a single message from the sink consumer and deserializes it.
func readLocated(ctx context.Context, t *testing.T, consumer *kafkago.Reader) locatedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.LocatedMediaEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return locatedMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 2 * time.Second,
	}
}

func mediaPayload(t *testing.T, id int64, lat, lon *float64) []byte {
	t.Helper()
	data, err := json.Marshal(domain.MediaEvent{
		ID:         id,
		Filename:   fmt.Sprintf("IMG_%04d.jpg", id),
		MimeType:   "image/jpeg",
		Latitude:   lat,
		Longitude:  lon,
		UploadedAt: time.Date(2024, time.May, 11, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return data
}

func ptr(v float64) *float64 { return &v }

// newResolver wires the production lookup stack against a fake Nominatim.
func newResolver(t *testing.T, baseURL string, metrics *observability.Metrics) *resolver.Resolver {
	t.Helper()
	client := nominatim.NewClient(nominatim.ClientConfig{BaseURL: baseURL, Zoom: 10, Language: "es", Timeout: 5 * time.Second}, discardLogger(), metrics)
	cached := cache.NewCachedGeocoder(client, cache.NewMemoryStore(100, time.Hour, nil), discardLogger(), metrics)
	return resolver.New(cached, discardLogger(), metrics, 5*time.Second)
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader and
// kafka.Writer round-trip a media event through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	payload := mediaPayload(t, 1, ptr(40.4168), ptr(-3.7038))
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("1"), Value: payload}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	// The consumer group may need time to rebalance before partitions are assigned.
	var batch []domain.RawEvent
	for len(batch) == 0 {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("1"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	srv, _ := fakeNominatim(t, map[string]string{
		"40.4168": `{"address":{"city":"Madrid","state":"Comunidad de Madrid","country":"España"}}`,
	})
	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(newResolver(t, srv.URL, metrics), discardLogger())
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	lm := readLocated(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "1", lm.Key)
	assert.Equal(t, domain.LocationSourceResolved, lm.Headers["location_source"])
	_, err = time.Parse(time.RFC3339, lm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")
	assert.Equal(t, "Madrid, Comunidad de Madrid, España", lm.Event.LocationName)
	assert.Equal(t, "IMG_0001.jpg", lm.Event.Filename)
}

// TestPipelineEndToEnd wires Reader, MediaTransformer, and Writer against real
// Kafka and a fake Nominatim, covering every location source.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	srv, nominatimCalls := fakeNominatim(t, map[string]string{
		"48.8566": `{"address":{"city":"Paris","state":"Île-de-France","country":"France"}}`,
		"35.6812": `{"address":{"country":"Japan"}}`,
	})

	// Three photos at the same spot, one in the ocean, one without GPS.
	events := []struct {
		id       int64
		lat, lon *float64
	}{
		{1, ptr(48.8566), ptr(2.3522)},
		{2, ptr(48.8566), ptr(2.3522)},
		{3, ptr(48.8566), ptr(2.3522)},
		{4, ptr(35.6812), ptr(139.7671)},
		{5, ptr(0), ptr(0)},
		{6, nil, nil},
	}

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprint(e.id)),
			Value: mediaPayload(t, e.id, e.lat, e.lon),
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(newResolver(t, srv.URL, metrics), discardLogger())
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := make(map[int64]locatedMessage, len(events))
	for len(received) < len(events) {
		lm := readLocated(ctx, t, consumer)
		received[lm.Event.ID] = lm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	assert.True(t, p.Ready())

	for id := int64(1); id <= 3; id++ {
		assert.Equal(t, "Paris, Île-de-France, France", received[id].Event.LocationName)
		assert.Equal(t, domain.LocationSourceResolved, received[id].Headers["location_source"])
	}
	assert.Equal(t, "Japan", received[4].Event.LocationName)
	assert.Equal(t, "0.0000, 0.0000", received[5].Event.LocationName)
	assert.Equal(t, domain.LocationSourceFallback, received[5].Event.LocationSource)
	assert.Empty(t, received[6].Event.LocationName)
	assert.Equal(t, domain.LocationSourceMissing, received[6].Event.LocationSource)

	// Paris once (cached afterwards), Tokyo once, 0,0 once; no call for the missing GPS event.
	assert.Equal(t, int32(3), nominatimCalls.Load())
}

// TestPipelineTransformError verifies that an unparsable media event is
// skipped and the pipeline continues with valid ones.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-poison")

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("7"), Value: mediaPayload(t, 7, nil, nil)},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	srv, _ := fakeNominatim(t, nil)
	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(newResolver(t, srv.URL, metrics), discardLogger())
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	lm := readLocated(ctx, t, consumer)
	assert.Equal(t, int64(7), lm.Event.ID)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
