package codebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pssparse/pss/doccomment"
	"github.com/dhamidi/pssparse/pss/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.pss", "package p { action go_a { } }")
	bad := writeFile(t, dir, "sub/bad.pss", "action A { int ; }")
	writeFile(t, dir, "notes.txt", "action ignored { }")
	writeFile(t, dir, ".cache/hidden.pss", "action hidden { }")
	writeFile(t, dir, "node_modules/dep.pss", "action dep { }")

	cb := NewWithConfig(dir, DefaultConfig())
	require.NoError(t, cb.ScanAll())
	require.Equal(t, []string{good, bad}, cb.Paths())

	require.Empty(t, cb.GetFile(good).Errors)
	errs := cb.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, filepath.Join("sub", "bad.pss"), errs[0].Pos.File)
	require.Equal(t, parser.TokenMismatch, errs[0].Code)
}

func TestUpdateAndRemoveFile(t *testing.T) {
	dir := t.TempDir()
	cb := NewWithConfig(dir, DefaultConfig())
	path := filepath.Join(dir, "a.pss")

	info := cb.UpdateFile(path, []byte("enum e { a, b }"))
	require.Empty(t, info.Errors)
	require.Len(t, info.Symbols, 1)
	require.Same(t, info, cb.GetFile(path))

	info = cb.UpdateFile(path, []byte("enum { a }"))
	require.NotEmpty(t, info.Errors)

	cb.RemoveFile(path)
	require.Nil(t, cb.GetFile(path))
	require.Empty(t, cb.Paths())
}

func TestMaxErrorsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxErrors = 1
	cb := NewWithConfig(t.TempDir(), cfg)
	info := cb.UpdateFile("x.pss", []byte("component c { int ; int ; int ; }"))
	require.Len(t, info.Errors, 2)
	require.Equal(t, parser.TooManyErrors, info.Errors[1].Code)
}

func TestFindSymbols(t *testing.T) {
	cb := NewWithConfig(t.TempDir(), DefaultConfig())
	cb.UpdateFile("a.pss", []byte("package p { component top { action go_a { } } }"))
	cb.UpdateFile("b.pss", []byte("struct go_s { int x; }"))

	var names []string
	for _, loc := range cb.FindSymbols("GO_") {
		names = append(names, loc.Path+" "+loc.Qualified)
	}
	require.Equal(t, []string{"a.pss p::top::go_a", "b.pss go_s", "b.pss go_s::x"}, names)
	require.Len(t, cb.FindSymbols(""), 5)
}

func TestPathAt(t *testing.T) {
	cb := NewWithConfig(t.TempDir(), DefaultConfig())
	cb.UpdateFile("a.pss", []byte("action A { int x; }"))

	chain := cb.PathAt("a.pss", 1, 16)
	require.NotEmpty(t, chain)
	require.Equal(t, parser.KindCompilationUnit, chain[0].Kind)
	last := chain[len(chain)-1]
	require.Equal(t, parser.KindTerminal, last.Kind)
	require.Equal(t, "x", last.Token.Literal)

	require.Nil(t, cb.PathAt("missing.pss", 1, 1))
	require.Empty(t, cb.PathAt("a.pss", 5, 1))
}

func TestDocAt(t *testing.T) {
	dir := t.TempDir()
	cb := NewWithConfig(dir, DefaultConfig())
	path := filepath.Join(dir, "a.pss")
	cb.UpdateFile(path, []byte("component c {\n\t/** Counter width. */\n\tint w;\n\tint v;\n}"))

	node, doc := cb.DocAt(path, 3, 7)
	require.NotNil(t, doc)
	require.Equal(t, "int w ;", node.Text())
	require.Equal(t, "Counter width.", doccomment.PlainText(doc))

	node, doc = cb.DocAt(path, 4, 7)
	require.Nil(t, node)
	require.Nil(t, doc)

	_, doc = cb.DocAt(filepath.Join(dir, "missing.pss"), 1, 1)
	require.Nil(t, doc)
}
