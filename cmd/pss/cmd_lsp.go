package main

import (
	"github.com/dhamidi/pssparse/pss/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the PSS language server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codebase.NewLSPServer(version).RunStdio()
		},
	}
}
