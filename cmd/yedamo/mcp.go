package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yedamo-ai/yedamo/pkg/mcp"
)

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the chart tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath, appOptions{calculator: true, generator: true})
			if err != nil {
				return err
			}
			defer a.Close()

			srv := mcp.NewServer(a.svc, a.statter(), a.logger, version)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}
}
