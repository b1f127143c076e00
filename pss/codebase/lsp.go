package codebase

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/pssparse/format"
	"github.com/dhamidi/pssparse/pss/doccomment"
	"github.com/dhamidi/pssparse/pss/parser"
)

const lsName = "pss"

var lspLog = commonlog.GetLogger("pss.lsp")

// LSPServer serves syntax diagnostics, document symbols and hover over
// stdio.
type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	notify   glsp.NotifyFunc
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)
	ls.notify = ctx.Notify
	lspLog.Infof("workspace root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.notify = ctx.Notify
	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.OnChange = func(path string, removed bool) {
		if removed {
			ls.publish(path, nil)
			return
		}
		if f := ls.codebase.GetFile(path); f != nil {
			ls.publish(path, f.Errors)
		}
	}
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// update reparses path and publishes its diagnostics.
func (ls *LSPServer) update(path string, content []byte) {
	f := ls.codebase.UpdateFile(path, content)
	ls.publish(path, f.Errors)
}

func (ls *LSPServer) publish(path string, errs []*parser.SyntaxError) {
	if ls.notify == nil {
		return
	}
	ls.notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: toDiagnostics(errs),
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(path, []byte(textChange.Text))
		}
	}
	return nil
}

// textDocumentDidClose falls back to the file on disk. A document that
// only existed in the editor is dropped and its diagnostics cleared.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
		ls.publish(path, nil)
		return nil
	}
	ls.publish(path, ls.codebase.GetFile(path).Errors)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(path, []byte(*params.Text))
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		lspLog.Warningf("save: %v", err)
		return nil
	}
	ls.publish(path, ls.codebase.GetFile(path).Errors)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return toDocumentSymbols(f.Symbols), nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line := int(params.Position.Line) + 1
	col := int(params.Position.Character) + 1
	chain := ls.codebase.PathAt(path, line, col)
	text := hoverText(chain)
	if text == "" {
		return nil, nil
	}
	if decl, doc := ls.codebase.DocAt(path, line, col); doc != nil {
		text = fmt.Sprintf("**%s** `%s`\n\n%s\n\n---\n%s", decl.Kind, decl.Name(), doccomment.Markdown(doc), text)
	}
	r := toRange(chain[len(chain)-1].Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

// hoverText renders the rule path of the innermost node, skipping the
// single-child wrappers that add no information.
func hoverText(chain []*parser.Node) string {
	var kinds []string
	for i, n := range chain {
		if n.Kind == parser.KindTerminal {
			continue
		}
		if i+1 < len(chain) && len(n.Children) == 1 && n.Kind != parser.KindIdentifier {
			continue
		}
		kinds = append(kinds, "`"+n.Kind.String()+"`")
	}
	if len(kinds) == 0 {
		return ""
	}
	return strings.Join(kinds, " › ")
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	var result []protocol.SymbolInformation
	for _, loc := range ls.codebase.FindSymbols(params.Query) {
		info := protocol.SymbolInformation{
			Name: loc.Symbol.Name,
			Kind: symbolKind(loc.Symbol.Kind),
			Location: protocol.Location{
				URI:   pathToURI(loc.Path),
				Range: toRange(loc.Symbol.NameSpan),
			},
		}
		if i := strings.LastIndex(loc.Qualified, "::"); i >= 0 {
			container := loc.Qualified[:i]
			info.ContainerName = &container
		}
		result = append(result, info)
	}
	return result, nil
}

func toDiagnostics(errs []*parser.SyntaxError) []protocol.Diagnostic {
	diags := make([]protocol.Diagnostic, 0, len(errs))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, err := range errs {
		start := toPosition(err.Pos)
		end := start
		end.Character += protocol.UInteger(len(err.Found.Literal))
		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: err.Code.String()},
			Source:   &source,
			Message:  err.Message,
		})
	}
	return diags
}

func toDocumentSymbols(symbols []*format.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           symbolKind(sym.Kind),
			Range:          toRange(sym.Span),
			SelectionRange: toRange(sym.NameSpan),
		}
		if sym.Detail != "" {
			detail := sym.Detail
			ds.Detail = &detail
		}
		if len(sym.Children) > 0 {
			ds.Children = toDocumentSymbols(sym.Children)
		}
		result = append(result, ds)
	}
	return result
}

func symbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case "package":
		return protocol.SymbolKindPackage
	case "component":
		return protocol.SymbolKindModule
	case "action":
		return protocol.SymbolKindClass
	case "struct", "buffer", "stream", "state", "resource":
		return protocol.SymbolKindStruct
	case "enum":
		return protocol.SymbolKindEnum
	case "enum_item":
		return protocol.SymbolKindEnumMember
	case "field":
		return protocol.SymbolKindField
	case "function":
		return protocol.SymbolKindFunction
	case "typedef":
		return protocol.SymbolKindTypeParameter
	case "covergroup":
		return protocol.SymbolKindObject
	case "constraint":
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindNamespace
	}
}

// toPosition converts a 1-based parser position to a 0-based LSP one.
// Columns are byte offsets within the line.
func toPosition(pos parser.Position) protocol.Position {
	p := protocol.Position{}
	if pos.Line > 0 {
		p.Line = protocol.UInteger(pos.Line - 1)
	}
	if pos.Column > 0 {
		p.Character = protocol.UInteger(pos.Column - 1)
	}
	return p
}

func toRange(span parser.Span) protocol.Range {
	return protocol.Range{Start: toPosition(span.Start), End: toPosition(span.End)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("parse uri: %w", err)
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
