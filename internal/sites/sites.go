// Package sites wires the built-in site tools into a registry.
package sites

import (
	"fmt"

	"microsites/internal/sites/macrame"
	"microsites/internal/tool"
)

// Builtin returns constructors for every site shipped with the binary.
func Builtin() []func() tool.Tool {
	return []func() tool.Tool{
		macrame.NewTool,
	}
}

// Register adds every built-in site to reg, skipping names listed in disabled.
func Register(reg *tool.Registry, disabled []string) error {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}
	for _, build := range Builtin() {
		t := build()
		if t != nil && skip[t.Name()] {
			continue
		}
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("register sites: %w", err)
		}
	}
	return nil
}
