// Package calculator runs the external chart calculator as an MCP tool.
package calculator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yedamo-ai/yedamo/pkg/mcp"
	"github.com/yedamo-ai/yedamo/pkg/models"
)

// DefaultTool is the calculator tool name.
const DefaultTool = "get_bazi_details"

// ToolCaller is the part of mcp.Client the calculator needs.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args any) (*mcp.ToolCallResult, error)
}

// MCP calls the calculator tool with a per-call timeout.
type MCP struct {
	client  ToolCaller
	tool    string
	timeout time.Duration
}

// New creates an MCP calculator. A zero timeout leaves the caller's deadline in charge.
func New(client ToolCaller, tool string, timeout time.Duration) *MCP {
	if tool == "" {
		tool = DefaultTool
	}
	return &MCP{client: client, tool: tool, timeout: timeout}
}

// Calculate returns the tool's JSON payload text. Transport failures,
// tool errors and empty results are all ErrComputation.
func (m *MCP) Calculate(ctx context.Context, in models.CalculatorInput) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	res, err := m.client.CallTool(ctx, m.tool, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrComputation, m.tool, err)
	}
	text, ok := res.FirstText()
	if res.IsError {
		return nil, fmt.Errorf("%w: %s reported: %s", models.ErrComputation, m.tool, text)
	}
	if !ok || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s returned no content", models.ErrComputation, m.tool)
	}
	return []byte(text), nil
}
