package tracer

import (
	"context"
	"testing"

	"en-garde-armory-be/internal/config"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSamplerByRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: sdktrace.AlwaysSample().Description()},
		{ratio: 2, want: sdktrace.AlwaysSample().Description()},
		{ratio: 0, want: sdktrace.NeverSample().Description()},
		{ratio: 0.5, want: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description()},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sampler(tt.ratio).Description())
	}
}

func TestInitTracerDisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(config.OtelConfig{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
}

func TestResourceCarriesEnvironment(t *testing.T) {
	res := newResource(config.OtelConfig{Environment: "staging"})

	var env string
	for _, kv := range res.Attributes() {
		if kv.Key == "deployment.environment" {
			env = kv.Value.AsString()
		}
	}
	assert.Equal(t, "staging", env)
}
