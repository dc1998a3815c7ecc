package tools

import (
	"context"
	"fmt"

	"github.com/prepgraph/prepgraph/pkg/registry"
)

// ToolRegistry holds the tools agents may execute by name.
type ToolRegistry struct {
	registry.Registry[Tool]
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		Registry: registry.NewBaseRegistry[Tool](),
	}
}

// RegisterTool registers a tool under its own name.
func (r *ToolRegistry) RegisterTool(tool Tool) error {
	return r.Register(tool.GetName(), tool)
}

// Execute runs the named tool. A missing tool is a programmer mistake and
// returns a Go error rather than a failed ToolResult.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}) (ToolResult, error) {
	tool, ok := r.Get(name)
	if !ok {
		return ToolResult{}, fmt.Errorf("tool '%s' not found", name)
	}
	return tool.Execute(ctx, args)
}
