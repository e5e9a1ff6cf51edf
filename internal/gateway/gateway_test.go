package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samarth-qa/internal/config"
)

func TestMockReplaysResponsesInOrder(t *testing.T) {
	m := NewMock("first", "second")

	out, err := m.Generate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	out, err = m.Generate(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	// The last response repeats once the script runs out.
	out, err = m.Generate(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	assert.Equal(t, 3, m.Calls)
	assert.Equal(t, []string{"p1", "p2", "p3"}, m.Prompts)
}

func TestMockSurfacesConfiguredError(t *testing.T) {
	m := NewMock("unused")
	m.Err = errors.New("backend down")

	_, err := m.Generate(context.Background(), "p")
	assert.Error(t, err)
	assert.Equal(t, 1, m.Calls)
}

func TestGatewayReportsBackendAndModel(t *testing.T) {
	gw := &Gateway{Generator: NewMock("hi"), backend: config.BackendGroq, model: "llama-3.3-70b-versatile"}

	assert.Equal(t, config.BackendGroq, gw.Backend())
	assert.Equal(t, "llama-3.3-70b-versatile", gw.Model())

	out, err := gw.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	// Close on a generator without resources is a no-op.
	gw.Close()
}

func TestConnectRejectsUnknownBackend(t *testing.T) {
	cfg := config.GatewayConfig{Backend: config.Backend("bedrock")}

	_, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
}
