package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dhamidi/pssparse/format"
	"github.com/dhamidi/pssparse/pss/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// parseFlags are shared by parse and tokens.
type parseFlags struct {
	comments  bool
	positions bool
	maxErrors int
	timeout   time.Duration
}

func (f *parseFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.comments, "comments", false, "keep comment tokens")
	fs.BoolVar(&f.positions, "positions", false, "include token positions in the output")
	fs.IntVar(&f.maxErrors, "max-errors", 0, "stop after this many syntax errors (0 means no limit)")
	fs.DurationVar(&f.timeout, "timeout", 0, "cancel the parse after this long (0 means no limit)")
}

func (f *parseFlags) options(ctx context.Context, filename string) []parser.Option {
	opts := []parser.Option{parser.WithFile(filename), parser.WithContext(ctx)}
	if f.comments {
		opts = append(opts, parser.WithComments())
	}
	if f.positions {
		opts = append(opts, parser.WithPositions())
	}
	if f.maxErrors > 0 {
		opts = append(opts, parser.WithMaxErrors(f.maxErrors))
	}
	return opts
}

// readSource reads the named file, or standard input for "-".
func readSource(cmd *cobra.Command, filename string) ([]byte, string, error) {
	if filename == "-" {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(cmd.InOrStdin()); err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return buf.Bytes(), "<stdin>", nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read pss file: %w", err)
	}
	return data, filename, nil
}

func newParseCmd() *cobra.Command {
	var flags parseFlags
	var outputFormat string
	var rule string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .pss file and dump the syntax tree",
		Long: "Parse a .pss file (or - for standard input) and write the tree in the chosen format.\n" +
			"The command exits non-zero when the input has syntax errors.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, filename, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			kind, ok := parser.LookupNodeKind(rule)
			if !ok {
				return fmt.Errorf("unknown rule %q", rule)
			}

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if tree, ok := enc.(*format.TreeEncoder); ok {
				tree.Positions = flags.positions
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if flags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.timeout)
				defer cancel()
			}

			p, err := parser.ParseRule(kind, bytes.NewReader(data), flags.options(ctx, filename)...)
			if err != nil {
				return err
			}
			root := p.Finish()

			doc := &format.Document{File: filename, Root: root, Errors: p.Errors()}
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			if n := len(p.Errors()); n > 0 {
				return fmt.Errorf("%s: %d syntax error(s)", filename, n)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Names(), ", ")+")")
	cmd.Flags().StringVarP(&rule, "rule", "r", parser.StartRule, "start rule")

	return cmd
}
