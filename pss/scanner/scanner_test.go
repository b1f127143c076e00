package scanner

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/pssparse/pss/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pss", "package p { action a { } }")
	b := writeFile(t, dir, "nested/b.pss", "action b { int ; }")
	writeFile(t, dir, "readme.md", "# not pss")
	writeFile(t, dir, ".hidden/c.pss", "action c { int ; }")

	s := New(WithWorkers(2))
	defer s.Close()
	id := s.Submit(Request{Paths: []string{dir}})
	result, err := s.Wait(id, 10*time.Second)
	require.NoError(t, err)

	require.Equal(t, StatusCompleted, result.Status)
	require.Equal(t, 2, result.Total)
	require.Equal(t, 2, result.Progress)
	require.Equal(t, 100, result.ProgressPercent())
	require.Len(t, result.Files, 2)
	require.Equal(t, a, result.Files[0].Path)
	require.Equal(t, b, result.Files[1].Path)
	require.Empty(t, result.Files[0].Errors)

	errs := result.SyntaxErrors()
	require.Len(t, errs, 1)
	require.Equal(t, b, errs[0].Pos.File)
	require.Equal(t, parser.TokenMismatch, errs[0].Code)
}

func TestScanManyFilesInParallel(t *testing.T) {
	dir := t.TempDir()
	var want []string
	for _, name := range []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7"} {
		want = append(want, writeFile(t, dir, name+".pss", "component "+name+" { int x; }"))
	}

	s := New(WithWorkers(4), WithParseOptions(parser.WithMaxErrors(1)))
	defer s.Close()
	result, err := s.Wait(s.Submit(Request{Paths: []string{dir}}), 10*time.Second)
	require.NoError(t, err)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.Path)
		require.Len(t, parser.Find(f.Root, parser.KindComponentDeclaration), 1)
	}
	require.Equal(t, want, got)
	require.Empty(t, result.SyntaxErrors())
}

func TestScanZipFile(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "lib.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"lib/a.pss":  "struct s { int x; }",
		"lib/b.txt":  "ignored",
		"lib/c.pss":  "enum e { a, }",
		"lib/empty/": "",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s := New()
	defer s.Close()
	result, err := s.Wait(s.Submit(Request{ZipFile: zipPath}), 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Files, 2)
	require.Equal(t, zipPath+"!lib/a.pss", result.Files[0].Path)
	require.Len(t, result.Files[1].Errors, 1)
}

func TestScanFailures(t *testing.T) {
	s := New(WithMatcher(func(path string) bool { return filepath.Ext(path) == ".psx" }))
	defer s.Close()

	result, err := s.Wait(s.Submit(Request{}), 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Error, "no paths")

	result, err = s.Wait(s.Submit(Request{Paths: []string{"/does/not/exist"}}), 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, result.Status)
	require.Contains(t, result.Error, "stat /does/not/exist")

	dir := t.TempDir()
	writeFile(t, dir, "a.pss", "action a { }")
	writeFile(t, dir, "b.psx", "action b { }")
	result, err = s.Wait(s.Submit(Request{Paths: []string{dir}}), 10*time.Second)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.Equal(t, filepath.Join(dir, "b.psx"), result.Files[0].Path)

	_, err = s.Wait("999", time.Second)
	require.ErrorContains(t, err, "unknown scan")

	list := s.List()
	require.Len(t, list, 3)
	require.Equal(t, "1", list[0].ID)
	require.Equal(t, "3", list[2].ID)
}

func TestScanSkipDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pss", "action a { }")
	writeFile(t, dir, "build/gen.pss", "action gen { int ; }")

	s := New(WithSkipDir(func(name string) bool { return name == "build" }))
	defer s.Close()
	result, err := s.Wait(s.Submit(Request{Paths: []string{dir}}), 10*time.Second)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.Empty(t, result.SyntaxErrors())
}

func TestSubmitAfterClose(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pss", "action a { }")

	s := New()
	id := s.Submit(Request{Paths: []string{dir}})
	s.Close()
	s.Close()

	result, err := s.Wait(id, 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, result.Status)

	require.Empty(t, s.Submit(Request{Paths: []string{dir}}))
	require.Len(t, s.List(), 1)
}
