package macrame

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microsites/internal/tool"
)

func TestRunSchemaMode(t *testing.T) {
	res, err := NewTool().Run(context.Background(), tool.Params{"mode": "schema"})
	require.NoError(t, err)

	assert.Equal(t, true, res["ok"])
	assert.NotEmpty(t, res["inputs"])
	assert.NotEmpty(t, res["outputs"])
}

func TestRunComputeDefaultMode(t *testing.T) {
	res, err := NewTool().Run(context.Background(), tool.Params(scenarioParams()))
	require.NoError(t, err)

	require.Equal(t, true, res["ok"])
	out, ok := res["result"].(Output)
	require.True(t, ok)
	assert.InDelta(t, 5.26, out.TotalRopeConverted, 1e-9)
}

func TestRunValidationFailureIsEnvelope(t *testing.T) {
	p := scenarioParams()
	p["mode"] = "compute"
	p["sample"].(map[string]any)["ropes"] = 0.0

	res, err := NewTool().Run(context.Background(), tool.Params(p))
	require.NoError(t, err)
	assert.Equal(t, false, res["ok"])
	assert.Equal(t, "sample.ropes must be greater than 0", res["error"])
	assert.NotContains(t, res, "result")
}

func TestRunComputationFailureIsEnvelope(t *testing.T) {
	p := scenarioParams()
	p["sample"].(map[string]any)["width"] = 0.0
	p["target"] = map[string]any{"total_length": 30.0, "min_width": 22.0, "rope_multiplier": 4.0}

	res, err := NewTool().Run(context.Background(), tool.Params(p))
	require.NoError(t, err)
	assert.Equal(t, false, res["ok"])
	assert.Equal(t, "Computation failed: division by zero", res["error"])
}

func TestRunUnknownMode(t *testing.T) {
	res, err := NewTool().Run(context.Background(), tool.Params{"mode": "explode"})
	require.NoError(t, err)
	assert.Equal(t, false, res["ok"])
	assert.Contains(t, res["error"], "unknown mode")

	res, err = NewTool().Run(context.Background(), tool.Params{"mode": 3})
	require.NoError(t, err)
	assert.Equal(t, false, res["ok"])
}

func TestToolIdentity(t *testing.T) {
	tl := NewTool()
	assert.Equal(t, "macrametool", tl.Name())
	assert.NotEmpty(t, tl.Description())
}

func TestRunOversizedRopeCountsAreEnvelopes(t *testing.T) {
	cases := map[string]func(p map[string]any){
		"num_ropes":    func(p map[string]any) { p["target"].(map[string]any)["num_ropes"] = 1e20 },
		"sample ropes": func(p map[string]any) { p["sample"].(map[string]any)["ropes"] = 1e20 },
		"min_width": func(p map[string]any) {
			p["target"] = map[string]any{"total_length": 30.0, "min_width": 1e30, "rope_multiplier": 4.0}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := scenarioParams()
			mutate(p)

			res, err := NewTool().Run(context.Background(), tool.Params(p))
			require.NoError(t, err)
			assert.Equal(t, false, res["ok"])
			assert.NotContains(t, res, "result")
		})
	}
}
