package main

import (
	"fmt"
	"net/http"

	"github.com/dhamidi/pssparse/pss/codebase"
	"github.com/dhamidi/pssparse/ui"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	var root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve parse and scan endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := codebase.LoadConfig(root)
			if err != nil {
				return err
			}
			server := ui.NewServer(config)
			defer server.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", addr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	cmd.Flags().StringVar(&root, "root", ".", "directory holding pss.yaml")

	return cmd
}
