package tool

import "fmt"

// NotFoundError reports that no tool is registered for a site.
type NotFoundError struct {
	Site string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Site '%s' not found", e.Site)
}

// ConfigurationError reports a tool without a usable entry point.
type ConfigurationError struct {
	Site   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Tool for '%s' is misconfigured: %s", e.Site, e.Reason)
}

// ExecutionError wraps a failure raised while running a tool, including malformed results.
type ExecutionError struct {
	Site string
	Err  error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }
