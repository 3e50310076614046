// Package macrame implements the rope calculator served under the "macrametool" site.
package macrame

import (
	"context"
	"fmt"
	"strings"

	"microsites/internal/tool"
)

// SiteName is the identifier the calculator is registered under.
const SiteName = "macrametool"

const (
	modeCompute = "compute"
	modeSchema  = "schema"
)

type calculatorTool struct{}

// NewTool returns the calculator as a dispatchable tool.
func NewTool() tool.Tool { return &calculatorTool{} }

func (*calculatorTool) Name() string { return SiteName }

func (*calculatorTool) Description() string {
	return "Estimates macrame rope quantities from a measured sample."
}

// Run dispatches on params["mode"]. Input problems come back as {ok:false, error}, never as a Go error.
func (*calculatorTool) Run(_ context.Context, params tool.Params) (tool.Result, error) {
	mode := modeCompute
	if raw, ok := params["mode"]; ok && raw != nil {
		s, isStr := raw.(string)
		if !isStr {
			return failure(fmt.Sprintf("mode must be a string, got %T", raw)), nil
		}
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			mode = s
		}
	}

	switch mode {
	case modeSchema:
		schema := Describe()
		return tool.Result{"ok": true, "inputs": schema.Inputs, "outputs": schema.Outputs}, nil
	case modeCompute:
		in, err := Parse(params)
		if err != nil {
			return failure(err.Error()), nil
		}
		out, err := Compute(in)
		if err != nil {
			return failure(err.Error()), nil
		}
		return tool.Result{"ok": true, "result": out}, nil
	default:
		return failure(fmt.Sprintf("unknown mode %q (expected %q or %q)", mode, modeCompute, modeSchema)), nil
	}
}

func failure(msg string) tool.Result {
	return tool.Result{"ok": false, "error": msg}
}
