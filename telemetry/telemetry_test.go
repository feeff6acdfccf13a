package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "surplusctl"})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

// Setup must succeed whenever an exporter is selected; in particular the
// service-name resource has to merge cleanly against the SDK's default
// resource and its schema URL.
func TestSetupStdout(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "surplusctl", Stdout: true})
	require.NoError(t, err)
	assert.True(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetupOTLPEndpoint(t *testing.T) {
	// The OTLP gRPC exporter connects lazily, so no collector is needed to
	// construct the provider.
	p, err := Setup(context.Background(), Config{ServiceName: "surplusctl", Endpoint: "localhost:4317"})
	require.NoError(t, err)
	assert.True(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}
