package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilSpan_IsNoOp(t *testing.T) {
	var sp *Span
	assert.NotPanics(t, func() {
		sp.SetString("k", "v").SetInt("n", 1).SetFloat("f", 0.5)
		sp.SetStatus(errors.New("boom"))
		EndSpan(sp, nil)
	})
}

func TestInit_ExportsSpans(t *testing.T) {
	// GIVEN tracing exporting into a buffer
	var buf bytes.Buffer
	require.NoError(t, Init("partsim", "test", &buf))

	// WHEN a span is started and ended with attributes
	_, span := StartSpan(context.Background(), "simulate.round-robin")
	span.SetString("policy", "round-robin").SetInt("final_tick", 42)
	EndSpan(span, nil)

	// THEN the stdout exporter wrote it
	out := buf.String()
	assert.Contains(t, out, "simulate.round-robin")
	assert.Contains(t, out, "final_tick")

	// AND a second Init is a no-op
	assert.NoError(t, Init("other", "x", &bytes.Buffer{}))
	assert.NoError(t, Shutdown(context.Background()))
}
