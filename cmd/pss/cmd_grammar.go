package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dhamidi/pssparse/pss/parser"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the PSS rule table",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarRulesCmd())
	cmd.AddCommand(newGrammarSetCmd("first", "Print the FIRST set of a rule", (*parser.Rule).First))
	cmd.AddCommand(newGrammarSetCmd("follow", "Print the FOLLOW set of a rule", (*parser.Rule).Follow))
	cmd.AddCommand(newGrammarConflictsCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Verify an EBNF rule table (default: the built-in one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d rules\n", len(parser.Rules().Names()))
				return nil
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			g, err := parser.LoadGrammar(args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rules\n", len(g.Names()))
			return nil
		},
	}
}

func newGrammarRulesCmd() *cobra.Command {
	var entries bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the productions of the rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if entries {
				for _, kind := range parser.EntryKinds() {
					fmt.Fprintln(out, kind)
				}
				return nil
			}
			g := parser.Rules()
			for _, name := range g.Names() {
				if !verbose {
					fmt.Fprintln(out, name)
					continue
				}
				fmt.Fprintf(out, "%s = %s .\n", name, parser.FormatExpr(g.RuleByName(name).Production.Expr))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&entries, "entries", false, "list only the rules accepted by parse --rule")
	cmd.Flags().BoolVarP(&verbose, "long", "l", false, "print each production's right-hand side")

	return cmd
}

func newGrammarSetCmd(use, short string, set func(*parser.Rule) parser.TokenSet) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <rule>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := parser.Rules().RuleByName(args[0])
			if rule == nil {
				return fmt.Errorf("unknown rule %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), set(rule))
			return nil
		},
	}
}

func newGrammarConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List rules whose alternatives share a FIRST token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts := parser.Rules().Conflicts()
			names := make([]string, 0, len(conflicts))
			for name := range conflicts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strings.Trim(conflicts[name].String(), "{}"))
			}
			return nil
		},
	}
}
