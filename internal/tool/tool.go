// Package tool defines the contract every site tool implements and the registry that resolves them.
package tool

import "context"

// Params is the JSON-decoded parameter payload handed to a tool. Its shape is tool specific.
type Params map[string]any

// Result is the mapping a tool returns on success. A nil Result is malformed.
type Result map[string]any

// Tool is a named entry point invoked by the dispatcher.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, params Params) (Result, error)
}

// RunFunc is the signature of a plain-function tool.
type RunFunc func(ctx context.Context, params Params) (Result, error)

type funcTool struct {
	name        string
	description string
	fn          RunFunc
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }

func (t *funcTool) Run(ctx context.Context, params Params) (Result, error) {
	return t.fn(ctx, params)
}

// Func adapts fn into a Tool. A nil fn is rejected by Registry.Register.
func Func(name, description string, fn RunFunc) Tool {
	return &funcTool{name: name, description: description, fn: fn}
}
