package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "package p { action A { } }", "parse", "-")
	require.NoError(t, err)
	require.Contains(t, out, "package_declaration")
	require.Contains(t, out, "action_declaration")

	out, err = run(t, "action A { int ; }", "parse", "-f", "sexpr", "-")
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 syntax error")
	require.Contains(t, out, "(error ")
	require.Contains(t, out, ";; token mismatch")
}

func TestParseCommandRule(t *testing.T) {
	out, err := run(t, "constraint x { a < b || c == d; }", "parse", "--rule", "constraint_declaration", "-f", "json", "-")
	require.NoError(t, err)
	require.Contains(t, out, `"binary_expression"`)

	_, err = run(t, "", "parse", "--rule", "no_such_rule", "-")
	require.ErrorContains(t, err, "unknown rule")

	_, err = run(t, "", "parse", "-f", "yaml", "-")
	require.ErrorContains(t, err, "unknown format")
}

func TestTokensCommand(t *testing.T) {
	out, err := run(t, "enum E { A }", "tokens", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "1:1 "))
	require.Contains(t, lines[0], "enum")
	require.Contains(t, lines[5], "end of input")

	_, err = run(t, "enum $", "tokens", "-")
	require.ErrorContains(t, err, "1 invalid token")
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pss"), []byte("package p { action a { } }"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "gen.pss"), []byte("action gen { int ; }"), 0o644))

	_, err := run(t, "", "check", "--root", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pss"), []byte("action b { int ; }"), 0o644))
	out, err := run(t, "", "check", "--root", dir)
	require.ErrorContains(t, err, "1 syntax error(s) in 2 file(s)")
	require.Contains(t, out, "b.pss:1:16: ")
}

func TestGrammarCommands(t *testing.T) {
	out, err := run(t, "", "grammar", "first", "action_declaration")
	require.NoError(t, err)
	require.Equal(t, "{action}\n", out)

	out, err = run(t, "", "grammar", "conflicts")
	require.NoError(t, err)
	require.Contains(t, out, "action_body_item\t")

	out, err = run(t, "", "grammar", "rules", "--entries")
	require.NoError(t, err)
	require.Contains(t, out, "constraint_declaration\n")

	out, err = run(t, "", "grammar", "check")
	require.NoError(t, err)
	require.Contains(t, out, " rules\n")

	_, err = run(t, "", "grammar", "follow", "nope")
	require.ErrorContains(t, err, "unknown rule")
}
