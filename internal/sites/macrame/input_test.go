package macrame

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlattenedMatchesNested(t *testing.T) {
	flat := map[string]any{
		"sample.k_length": 10.0, "sample.rope_used": 44.0, "sample.width": 10.0, "sample.ropes": 4.0,
		"sample.attached_length": 4.0, "sample.fringe_length": 2.0, "sample.folded": true,
		"target.num_ropes": 4.0, "target.total_length": 30.0,
		"settings.safety_margin": 15.0, "settings.uom": "cm",
	}

	nested, err := Parse(scenarioParams())
	require.NoError(t, err)
	fromFlat, err := Parse(flat)
	require.NoError(t, err)

	assert.Equal(t, nested, fromFlat)
}

func TestParseDottedKeysOverrideNested(t *testing.T) {
	p := scenarioParams()
	p["settings.uom"] = "in"

	in, err := Parse(p)
	require.NoError(t, err)
	assert.Equal(t, UnitIN, in.Settings.UOM)
}

func TestParseCoercesFormStrings(t *testing.T) {
	p := map[string]any{
		"sample":   map[string]any{"k_length": "10", "rope_used": " 44 ", "width": "10", "ropes": "4", "folded": "true"},
		"target":   map[string]any{"num_ropes": "", "min_width": "22", "rope_multiplier": json.Number("4"), "total_length": 30},
		"settings": map[string]any{"uom": "CM"},
	}

	in, err := Parse(p)
	require.NoError(t, err)
	assert.Equal(t, 4, in.Sample.Ropes)
	assert.True(t, in.Sample.Folded)
	assert.Nil(t, in.Target.NumRopes)
	require.NotNil(t, in.Target.MinWidth)
	assert.Equal(t, 22.0, *in.Target.MinWidth)
	assert.Equal(t, 4.0, *in.Target.RopeMultiplier)
	assert.Equal(t, UnitCM, in.Settings.UOM)
	assert.Zero(t, in.Settings.SafetyMargin)
}

func TestParseValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p map[string]any)
		want   string
	}{
		{"zero ropes", func(p map[string]any) { sample(p)["ropes"] = 0.0 }, "sample.ropes must be greater than 0"},
		{"zero k_length", func(p map[string]any) { sample(p)["k_length"] = 0.0 }, "sample.k_length must be greater than 0"},
		{"missing k_length", func(p map[string]any) { delete(sample(p), "k_length") }, "sample.k_length is required"},
		{"non-numeric width", func(p map[string]any) { sample(p)["width"] = "wide" }, "sample.width must be a number"},
		{"bool as number", func(p map[string]any) { sample(p)["rope_used"] = true }, "sample.rope_used must be a number"},
		{"fractional ropes", func(p map[string]any) { sample(p)["ropes"] = 2.5 }, "sample.ropes must be a whole number"},
		{"bad folded", func(p map[string]any) { sample(p)["folded"] = "maybe" }, "sample.folded must be true or false"},
		{"negative fringe", func(p map[string]any) { sample(p)["fringe_length"] = -1.0 }, "sample.fringe_length must not be negative"},
		{"short total", func(p map[string]any) { target(p)["total_length"] = 2.0 }, "target.total_length must be greater than sample.fringe_length"},
		{"negative num_ropes", func(p map[string]any) { target(p)["num_ropes"] = -3.0 }, "target.num_ropes must be greater than 0"},
		{"huge num_ropes", func(p map[string]any) { target(p)["num_ropes"] = 1e20 }, "target.num_ropes must be at most 2147483647"},
		{"huge sample ropes", func(p map[string]any) { sample(p)["ropes"] = 1e20 }, "sample.ropes must be at most 2147483647"},
		{"rope_used below fixed lengths", func(p map[string]any) { sample(p)["rope_used"] = 1.0 }, "sample.rope_used must be at least sample.attached_length + sample.fringe_length"},
		{"min_width missing", func(p map[string]any) {
			delete(target(p), "num_ropes")
			target(p)["rope_multiplier"] = 4.0
		}, "target.min_width is required when target.num_ropes is not given"},
		{"multiplier missing", func(p map[string]any) {
			delete(target(p), "num_ropes")
			target(p)["min_width"] = 20.0
		}, "target.rope_multiplier is required when target.num_ropes is not given"},
		{"multiplier zero", func(p map[string]any) {
			target(p)["num_ropes"] = nil
			target(p)["min_width"] = 20.0
			target(p)["rope_multiplier"] = 0.0
		}, "target.rope_multiplier must be greater than 0"},
		{"bad uom", func(p map[string]any) { p["settings"].(map[string]any)["uom"] = "mm" }, `settings.uom must be one of cm, in (got "mm")`},
		{"missing uom", func(p map[string]any) { delete(p["settings"].(map[string]any), "uom") }, "settings.uom is required"},
		{"missing sections", func(p map[string]any) { delete(p, "sample") }, "sample.k_length is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := scenarioParams()
			tc.mutate(p)

			_, err := Parse(p)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestParseZeroNumRopesFallsBackToMinWidth(t *testing.T) {
	p := scenarioParams()
	target(p)["num_ropes"] = 0.0
	target(p)["min_width"] = 10.0
	target(p)["rope_multiplier"] = 2.0

	in, err := Parse(p)
	require.NoError(t, err)
	assert.Nil(t, in.Target.NumRopes)
}

func sample(p map[string]any) map[string]any { return p["sample"].(map[string]any) }
func target(p map[string]any) map[string]any { return p["target"].(map[string]any) }
