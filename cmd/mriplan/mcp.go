package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Expose planning and document tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			srv := mcp.NewServer(&mcp.Implementation{
				Name:    "mriplan",
				Version: version,
			}, nil)
			d.pipeline.RegisterMCP(srv)
			d.planner.RegisterMCP(srv)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
