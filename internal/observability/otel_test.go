package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadOtelConfig(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER", "OTLPHTTP")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-token=abc, bad, =v")
	t.Setenv("OTEL_SAMPLER_RATIO", "4")

	cfg := LoadOtelConfig(nil)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterOTLPHTTP, cfg.Exporter)
	assert.Equal(t, map[string]string{"x-token": "abc"}, cfg.Headers)
	assert.Equal(t, 1.0, cfg.SampleRatio)
	assert.Equal(t, "forumcore", cfg.ServiceName)
}

func TestParseHeadersEmpty(t *testing.T) {
	assert.Nil(t, parseHeaders(""))
	assert.Nil(t, parseHeaders(" , ="))
}

func TestBuildTraceExporterRejectsUnknown(t *testing.T) {
	_, err := buildTraceExporter(t.Context(), OtelConfig{Exporter: "zipkin"})
	assert.Error(t, err)
}
