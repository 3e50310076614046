package server

import "microsites/internal/tool"

// SiteInfo describes a registered site for discovery.
type SiteInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RunRequest is the body of POST /run/{site}.
type RunRequest struct {
	Params map[string]any `json:"params"`
}

// ToolResponse is the success envelope. Result is set when OK, Error otherwise.
type ToolResponse struct {
	OK     bool        `json:"ok"`
	Result tool.Result `json:"result"`
	Error  *string     `json:"error"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
