package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ExtraArguments(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"now"}, options{size: 8, device: "cpu"}, &out)
	assert.ErrorIs(t, err, errUsage)
	assert.ErrorContains(t, err, `"now"`)
	assert.Equal(t, 2, exitCode(err))
	assert.Empty(t, out.String())
}

func TestRun_UnknownDevice(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, options{size: 8, device: "tpu"}, &out)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown device "tpu"`)
	assert.Equal(t, 1, exitCode(err))
	assert.Empty(t, out.String())
}

func TestRun_InvalidSize(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), nil, options{size: 0, device: "cpu"}, &out)
	assert.ErrorContains(t, err, "matrix size")
	assert.Equal(t, 1, exitCode(err))
}

func TestRun_Summary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, options{size: 8, device: "cpu", summary: true}, &out))

	text := out.String()
	assert.Contains(t, text, "Matrix multiply on cpu: ")
	assert.Contains(t, text, "NN forward: input shape (4, 10) → output shape (4, 5)")
	summary := text[strings.Index(text, "\n\n")+2:]
	for _, want := range []string{"Environment", "Matrix multiply", "(8, 8)", "325 parameters"} {
		assert.Contains(t, summary, want)
	}
}

func TestRun_NoSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, options{size: 8, device: "cpu"}, &out))
	assert.Contains(t, out.String(), "Autograd: ")
	assert.NotContains(t, out.String(), "\n\n")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := run(ctx, nil, options{size: 8, device: "cpu"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
}
