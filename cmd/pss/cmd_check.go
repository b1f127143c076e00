package main

import (
	"fmt"
	"time"

	"github.com/dhamidi/pssparse/pss/codebase"
	"github.com/dhamidi/pssparse/pss/scanner"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var root string
	var zipFile string
	var workers int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Parse every .pss file under the given paths and report syntax errors",
		Long: "Parse the matching files under each path (default .) and print one\n" +
			"file:line:col: message line per syntax error. Include and exclude patterns\n" +
			"come from pss.yaml in the root directory when it exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := codebase.LoadConfig(root)
			if err != nil {
				return err
			}
			if len(args) == 0 && zipFile == "" {
				args = []string{root}
			}

			s := scanner.New(
				scanner.WithWorkers(workers),
				scanner.WithMatcher(config.Matches),
				scanner.WithSkipDir(config.SkipDir),
				scanner.WithParseOptions(config.ParseOptions()...),
			)
			defer s.Close()

			id := s.Submit(scanner.Request{Paths: args, ZipFile: zipFile})
			result, err := s.Wait(id, timeout)
			if err != nil {
				return err
			}
			if result.Status == scanner.StatusFailed {
				return fmt.Errorf("scan failed: %s", result.Error)
			}

			out := cmd.OutOrStdout()
			for _, msg := range result.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			errs := result.SyntaxErrors()
			for _, e := range errs {
				fmt.Fprintln(out, e.Error())
			}
			log.Infof("checked %d file(s) in %s: %d syntax error(s)",
				len(result.Files), result.EndedAt.Sub(result.StartedAt), len(errs))

			if len(errs) > 0 {
				return fmt.Errorf("%d syntax error(s) in %d file(s)", len(errs), len(result.Files))
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d file(s) could not be read", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "directory holding pss.yaml")
	cmd.Flags().StringVar(&zipFile, "zip", "", "also check the .pss entries of this zip archive")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of parallel parsers (0 means one per CPU)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 means no limit)")

	return cmd
}
