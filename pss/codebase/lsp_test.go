package codebase

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/pssparse/format"
	"github.com/dhamidi/pssparse/pss/parser"
)

type lspFixture struct {
	ls        *LSPServer
	ctx       *glsp.Context
	dir       string
	published []protocol.PublishDiagnosticsParams
}

func newLSPFixture(t *testing.T) *lspFixture {
	t.Helper()
	f := &lspFixture{ls: NewLSPServer("test"), dir: t.TempDir()}
	f.ctx = &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			f.published = append(f.published, params.(protocol.PublishDiagnosticsParams))
		}
	}}
	result, err := f.ls.initialize(f.ctx, &protocol.InitializeParams{RootPath: &f.dir})
	require.NoError(t, err)
	res := result.(protocol.InitializeResult)
	require.Equal(t, "pss", res.ServerInfo.Name)
	require.NotNil(t, res.Capabilities.DocumentSymbolProvider)
	return f
}

func (f *lspFixture) open(t *testing.T, name, text string) string {
	t.Helper()
	uri := pathToURI(filepath.Join(f.dir, name))
	require.NoError(t, f.ls.textDocumentDidOpen(f.ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "pss", Text: text},
	}))
	return uri
}

func (f *lspFixture) last() protocol.PublishDiagnosticsParams {
	return f.published[len(f.published)-1]
}

func TestLSPDiagnostics(t *testing.T) {
	f := newLSPFixture(t)
	uri := f.open(t, "a.pss", "action A { int ; }")

	require.Len(t, f.published, 1)
	pub := f.last()
	require.Equal(t, uri, pub.URI)
	require.Len(t, pub.Diagnostics, 1)
	diag := pub.Diagnostics[0]
	require.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 15},
		End:   protocol.Position{Line: 0, Character: 16},
	}, diag.Range)
	require.Equal(t, protocol.DiagnosticSeverityError, *diag.Severity)
	require.Equal(t, "token mismatch", diag.Code.Value)
	require.Contains(t, diag.Message, "expected")

	require.NoError(t, f.ls.textDocumentDidChange(f.ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "action A { int x; }"}},
	}))
	require.Len(t, f.published, 2)
	require.NotNil(t, f.last().Diagnostics)
	require.Empty(t, f.last().Diagnostics)

	// The document never existed on disk, so closing it clears it.
	require.NoError(t, f.ls.textDocumentDidClose(f.ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Empty(t, f.last().Diagnostics)
	require.Empty(t, f.ls.codebase.Paths())
}

func TestLSPDidSaveRereadsDisk(t *testing.T) {
	f := newLSPFixture(t)
	path := writeFile(t, f.dir, "a.pss", "enum { }")
	uri := pathToURI(path)

	require.NoError(t, f.ls.textDocumentDidSave(f.ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, f.last().Diagnostics, 1)

	text := "enum e { }"
	require.NoError(t, f.ls.textDocumentDidSave(f.ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	}))
	require.Empty(t, f.last().Diagnostics)
}

func TestLSPDocumentSymbols(t *testing.T) {
	f := newLSPFixture(t)
	uri := f.open(t, "a.pss", "package p {\n  action go_a { int n; }\n}")

	result, err := f.ls.textDocumentDocumentSymbol(f.ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	symbols := result.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 1)
	require.Equal(t, "p", symbols[0].Name)
	require.Equal(t, protocol.SymbolKindPackage, symbols[0].Kind)

	action := symbols[0].Children[0]
	require.Equal(t, "go_a", action.Name)
	require.Equal(t, protocol.SymbolKindClass, action.Kind)
	require.Equal(t, protocol.Position{Line: 1, Character: 9}, action.SelectionRange.Start)
	require.Equal(t, "int", *action.Children[0].Detail)

	missing, err := f.ls.textDocumentDocumentSymbol(f.ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(filepath.Join(f.dir, "nope.pss"))},
	})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestLSPHover(t *testing.T) {
	f := newLSPFixture(t)
	uri := f.open(t, "a.pss", "action A { int x; }")

	hover, err := f.ls.textDocumentHover(f.ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 7},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content := hover.Contents.(protocol.MarkupContent)
	require.Equal(t, "`action_declaration` › `identifier`", content.Value)

	hover, err = f.ls.textDocumentHover(f.ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 9, Character: 0},
		},
	})
	require.NoError(t, err)
	require.Nil(t, hover)
}

func TestLSPHoverShowsDocComment(t *testing.T) {
	f := newLSPFixture(t)
	uri := f.open(t, "a.pss", "/** Moves {@code n} bytes.\n * @param n count */\naction dma_a { int n; }")

	hover, err := f.ls.textDocumentHover(f.ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 2, Character: 19},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content := hover.Contents.(protocol.MarkupContent).Value
	require.True(t, strings.HasPrefix(content, "**action_declaration** `dma_a`\n\nMoves `n` bytes."), content)
	require.Contains(t, content, "*@param* `n` count")
	require.True(t, strings.HasSuffix(content, "`identifier`"), content)
}

func TestLSPWorkspaceSymbol(t *testing.T) {
	f := newLSPFixture(t)
	f.open(t, "a.pss", "component top { action go_a { } }")

	infos, err := f.ls.workspaceSymbol(f.ctx, &protocol.WorkspaceSymbolParams{Query: "go"})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, "go_a", infos[0].Name)
	require.Equal(t, "top", *infos[0].ContainerName)
}

func TestToDiagnosticsAtEOF(t *testing.T) {
	_, errs := parser.Parse([]byte("package p {"))
	diags := toDiagnostics(errs)
	require.Len(t, diags, 1)
	require.Equal(t, diags[0].Range.Start, diags[0].Range.End)
}

func TestSymbolKinds(t *testing.T) {
	require.Equal(t, protocol.SymbolKindStruct, symbolKind("buffer"))
	require.Equal(t, protocol.SymbolKindEnumMember, symbolKind("enum_item"))
	require.Equal(t, protocol.SymbolKindNamespace, symbolKind("extend"))
	require.Empty(t, toDocumentSymbols([]*format.Symbol{}))
}
