package recommend

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type planIn struct {
	PatientText string   `json:"patient_text" jsonschema:"Free-text patient information"`
	Sources     []string `json:"sources" jsonschema:"Document references: file paths, URLs, or inline text"`
}

// RegisterMCP registers the planning tool on an MCP server.
func (p *Planner) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "mri_plan",
		Description: "Recommend an MRI protocol for a patient, grounded in the supplied literature sources.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in planIn) (*mcp.CallToolResult, *Result, error) {
		result, err := p.Plan(ctx, Request{PatientText: in.PatientText, Sources: in.Sources})
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
