package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func TestInitDisabled(t *testing.T) {
	shutdown := Init(context.Background(), config.MonitoringConfig{}, "test", "dev", logger.Nop())
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()
}

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{-2, 1},
		{0.25, 0.25},
		{3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampleRatio(tt.in))
	}
}
