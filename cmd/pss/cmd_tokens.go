package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dhamidi/pssparse/pss/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of a .pss file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, filename, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
			lexer := parser.NewLexer(data, filename)
			bad := 0
			for {
				tok := lexer.NextToken()
				switch tok.Kind {
				case parser.TokenWhitespace, parser.TokenComment, parser.TokenLineComment:
					if !all {
						continue
					}
				case parser.TokenError:
					bad++
				}
				fmt.Fprintf(w, "%d:%d\t%s\t%s\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind, tok)
				if tok.Kind == parser.TokenEOF {
					break
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if bad > 0 {
				return fmt.Errorf("%s: %d invalid token(s)", filename, bad)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include whitespace and comment tokens")

	return cmd
}
