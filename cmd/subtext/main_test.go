package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtextlab/subtext/internal/analysis"
)

func init() {
	color.NoColor = true
}

func TestPrintResult_CoerciveText(t *testing.T) {
	p := analysis.NewPipeline()
	result, err := p.Run(context.Background(), analysis.Params{
		Text: "You must believe this is the answer. Act now before it's too late.",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	printResult(&out, result)

	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), "Status: failed")
	assert.Contains(t, out.String(), "VIOLATIONS")
	assert.Contains(t, out.String(), "Coercive language detected")
	assert.Contains(t, out.String(), "Tip: Reframe as invitation")
}

func TestPrintResult_ContrastText(t *testing.T) {
	p := analysis.NewPipeline()
	result, err := p.Run(context.Background(), analysis.Params{
		Text: "I expected it to fail, but it actually succeeded. The test was the lesson.",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	printResult(&out, result)

	assert.Contains(t, out.String(), "EXPECTATION BREAKS")
	assert.Contains(t, out.String(), "Content Type: contrast_narrative")
	assert.Contains(t, out.String(), "Core insight:")
	assert.NotContains(t, out.String(), "VIOLATIONS")
}

func TestPrintResult_PlainText(t *testing.T) {
	p := analysis.NewPipeline()
	result, err := p.Run(context.Background(), analysis.Params{
		Text: "The train leaves at noon.",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	printResult(&out, result)

	assert.Contains(t, out.String(), "SUCCESS")
	assert.Contains(t, out.String(), "Content Type: straightforward")
	assert.NotContains(t, out.String(), "EXPECTATION BREAKS")
}
