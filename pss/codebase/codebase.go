package codebase

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pssparse/format"
	"github.com/dhamidi/pssparse/pss/doccomment"
	"github.com/dhamidi/pssparse/pss/parser"
)

var log = commonlog.GetLogger("pss.codebase")

// Codebase holds the parsed state of every source file in a workspace.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	config  *Config
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	AST     *parser.Node
	Errors  []*parser.SyntaxError
	Symbols []*format.Symbol
	Docs    *doccomment.Index
}

// New creates a codebase rooted at rootDir configured from its pss.yaml.
// An unreadable configuration is logged and the defaults are used.
func New(rootDir string) *Codebase {
	cfg, err := LoadConfig(rootDir)
	if err != nil {
		log.Warningf("%s: %v; using defaults", rootDir, err)
		cfg = DefaultConfig()
	}
	return NewWithConfig(rootDir, cfg)
}

func NewWithConfig(rootDir string, cfg *Config) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		config:  cfg,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *Config {
	return c.config
}

// ScanAll parses every matching file below the root directory.
func (c *Codebase) ScanAll() error {
	return c.walk(func(path string, _ fs.FileInfo) {
		if err := c.ScanFile(path); err != nil {
			log.Errorf("scan %s: %v", path, err)
		}
	})
}

// walk calls fn for each workspace source file under the root.
func (c *Codebase) walk(fn func(path string, info fs.FileInfo)) error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && c.config.SkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.config.Matches(path) {
			fn(path, info)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile reparses path from content and replaces its previous state.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	opts := append(c.config.ParseOptions(), parser.WithFile(c.relative(path)), parser.WithComments())
	p := parser.ParseCompilationUnit(bytes.NewReader(content), opts...)
	ast := p.Finish()
	errs := p.Errors()
	info := &FileInfo{
		Path:    path,
		Content: content,
		AST:     ast,
		Errors:  errs,
		Symbols: format.Outline(ast),
		Docs:    doccomment.NewIndex(p.Tokens(), p.Comments()),
	}
	if len(errs) > 0 {
		log.Debugf("%s: %d syntax errors", path, len(errs))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func (c *Codebase) relative(path string) string {
	if rel, err := filepath.Rel(c.rootDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known file paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Errors returns the syntax errors of every file, ordered by path.
func (c *Codebase) Errors() []*parser.SyntaxError {
	var all []*parser.SyntaxError
	for _, path := range c.Paths() {
		if f := c.GetFile(path); f != nil {
			all = append(all, f.Errors...)
		}
	}
	return all
}

// SymbolLocation is a declaration together with the file declaring it.
type SymbolLocation struct {
	Path      string
	Qualified string
	Symbol    *format.Symbol
}

// FindSymbols returns the declarations whose qualified name contains
// query, ignoring case. An empty query matches everything.
func (c *Codebase) FindSymbols(query string) []SymbolLocation {
	query = strings.ToLower(query)
	var result []SymbolLocation
	for _, path := range c.Paths() {
		f := c.GetFile(path)
		if f == nil {
			continue
		}
		collectSymbols(f.Symbols, "", func(qualified string, sym *format.Symbol) {
			if strings.Contains(strings.ToLower(qualified), query) {
				result = append(result, SymbolLocation{Path: path, Qualified: qualified, Symbol: sym})
			}
		})
	}
	return result
}

func collectSymbols(symbols []*format.Symbol, scope string, fn func(string, *format.Symbol)) {
	for _, sym := range symbols {
		qualified := sym.Name
		if scope != "" {
			qualified = scope + "::" + sym.Name
		}
		fn(qualified, sym)
		collectSymbols(sym.Children, qualified, fn)
	}
}

// PathAt returns the chain of nodes from the root of path's tree down to
// the innermost node covering line and column (both 1-based).
func (c *Codebase) PathAt(path string, line, column int) []*parser.Node {
	f := c.GetFile(path)
	if f == nil || f.AST == nil {
		return nil
	}
	pos := parser.Position{Line: line, Column: column}
	var chain []*parser.Node
	for n := f.AST; n != nil; {
		if !n.Span.Contains(pos) {
			break
		}
		chain = append(chain, n)
		var next *parser.Node
		for _, child := range n.Children {
			if child != nil && child.Span.Contains(pos) {
				next = child
				break
			}
		}
		n = next
	}
	return chain
}

// DocAt returns the innermost node on PathAt's chain that has a doc
// comment, together with the parsed comment.
func (c *Codebase) DocAt(path string, line, column int) (*parser.Node, *doccomment.Comment) {
	f := c.GetFile(path)
	if f == nil {
		return nil, nil
	}
	chain := c.PathAt(path, line, column)
	for i := len(chain) - 1; i >= 0; i-- {
		if doc, ok := f.Docs.Lookup(chain[i]); ok {
			return chain[i], doc
		}
	}
	return nil, nil
}
