package docpipe

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type processIn struct {
	Sources []string `json:"sources" jsonschema:"Document references: file paths, URLs, or inline text"`
}

type processOut struct {
	Documents []Document `json:"documents"`
}

type chunkIn struct {
	Text    string `json:"text" jsonschema:"Text to split into chunks"`
	Size    int    `json:"size,omitempty" jsonschema:"Maximum chunk length in characters"`
	Overlap int    `json:"overlap,omitempty" jsonschema:"Characters repeated between adjacent chunks"`
}

type chunkOut struct {
	Chunks []Chunk `json:"chunks"`
}

// RegisterMCP registers docpipe tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "docpipe_process",
		Description: "Extract, normalize, and section documents from file paths, URLs, or inline text.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in processIn) (*mcp.CallToolResult, processOut, error) {
		sources := ResolveAll(in.Sources)
		return nil, processOut{Documents: p.Process(ctx, sources)}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "docpipe_chunk",
		Description: "Split text into overlapping chunks sized for language-model calls.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, in chunkIn) (*mcp.CallToolResult, chunkOut, error) {
		size := in.Size
		if size <= 0 {
			size = p.cfg.ChunkSize
		}
		overlap := in.Overlap
		if overlap <= 0 {
			overlap = p.cfg.ChunkOverlap
		}
		return nil, chunkOut{Chunks: Chunkify(in.Text, size, overlap)}, nil
	})
}
