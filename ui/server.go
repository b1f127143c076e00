// Package ui serves scan jobs and single-file parses over HTTP.
package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pssparse/format"
	"github.com/dhamidi/pssparse/pss/codebase"
	"github.com/dhamidi/pssparse/pss/parser"
	"github.com/dhamidi/pssparse/pss/scanner"
)

var log = commonlog.GetLogger("pss.ui")

// maxSourceSize bounds request bodies and uploaded archives.
const maxSourceSize = 32 << 20

type Server struct {
	scanner *scanner.Scanner
	config  *codebase.Config
	mux     *http.ServeMux
}

func NewServer(config *codebase.Config) *Server {
	if config == nil {
		config = codebase.DefaultConfig()
	}
	s := &Server{
		scanner: scanner.New(
			scanner.WithMatcher(config.Matches),
			scanner.WithSkipDir(config.SkipDir),
			scanner.WithParseOptions(config.ParseOptions()...),
		),
		config: config,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("GET /scans", s.handleListScans)
	s.mux.HandleFunc("GET /scans/{id}", s.handleGetScan)
	s.mux.HandleFunc("GET /scans/{id}/file", s.handleGetFile)

	return s
}

func (s *Server) Close() {
	s.scanner.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	log.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
}

// handleParse parses the request body from ?rule= (default
// compilation_unit) and writes it in ?format= (default json).
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	rule := r.URL.Query().Get("rule")
	if rule == "" {
		rule = parser.StartRule
	}
	kind, ok := parser.LookupNodeKind(rule)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown rule %q", rule), http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceSize))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	file := r.URL.Query().Get("file")

	opts := append([]parser.Option{parser.WithFile(file), parser.WithContext(r.Context())}, s.config.ParseOptions()...)
	p, err := parser.ParseRule(kind, bytes.NewReader(data), opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	root := p.Finish()
	s.encode(w, r, &format.Document{File: file, Root: root, Errors: p.Errors()})
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request, doc *format.Document) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = "json"
	}
	var buf bytes.Buffer
	enc, err := format.NewEncoder(name, &buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := enc.Encode(doc); err != nil {
		http.Error(w, "encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if name == "json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Write(buf.Bytes())
}

// handleScan accepts a JSON scan.Request or a form with path fields and
// an optional zipfile upload, and redirects to the new scan.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanner.Request

	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseMultipartForm(maxSourceSize); err != nil {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		req.Paths = r.Form["path"]

		if file, _, err := r.FormFile("zipfile"); err == nil {
			defer file.Close()
			tmpFile, err := os.CreateTemp("", "pss-*.zip")
			if err != nil {
				http.Error(w, "failed to create temp file: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if _, err := io.Copy(tmpFile, file); err != nil {
				tmpFile.Close()
				os.Remove(tmpFile.Name())
				http.Error(w, "failed to save zip file: "+err.Error(), http.StatusInternalServerError)
				return
			}
			tmpFile.Close()
			req.ZipFile = tmpFile.Name()
		}
	}

	if len(req.Paths) == 0 && req.ZipFile == "" {
		http.Error(w, "must provide path or zipfile", http.StatusBadRequest)
		return
	}

	id := s.scanner.Submit(req)
	if id == "" {
		http.Error(w, "scanner is shut down", http.StatusServiceUnavailable)
		return
	}
	log.Infof("scan %s submitted", id)
	http.Redirect(w, r, "/scans/"+id, http.StatusSeeOther)
}

type diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type scanSummary struct {
	ID       string         `json:"id"`
	Status   scanner.Status `json:"status"`
	Progress int            `json:"progress"`
	Files    []string       `json:"files"`
	Errors   []string       `json:"errors"`
	Syntax   []diagnostic   `json:"syntax_errors"`
	Failure  string         `json:"failure,omitempty"`
}

func summarize(result *scanner.Result) scanSummary {
	sum := scanSummary{
		ID:       result.ID,
		Status:   result.Status,
		Progress: result.ProgressPercent(),
		Files:    []string{},
		Errors:   result.Errors,
		Syntax:   []diagnostic{},
		Failure:  result.Error,
	}
	if sum.Errors == nil {
		sum.Errors = []string{}
	}
	for _, f := range result.Files {
		sum.Files = append(sum.Files, f.Path)
		for _, e := range f.Errors {
			sum.Syntax = append(sum.Syntax, diagnostic{
				File:    f.Path,
				Line:    e.Pos.Line,
				Column:  e.Pos.Column,
				Code:    e.Code.String(),
				Message: e.Message,
			})
		}
	}
	return sum
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %v", err)
	}
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	results := s.scanner.List()
	sums := make([]scanSummary, 0, len(results))
	for _, res := range results {
		sums = append(sums, summarize(res))
	}
	writeJSON(w, sums)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	result, ok := s.scanner.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	writeJSON(w, summarize(result))
}

// handleGetFile writes the tree of one scanned file, named by ?path=.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	result, ok := s.scanner.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}
	path := r.URL.Query().Get("path")
	for _, f := range result.Files {
		if f.Path == path {
			s.encode(w, r, &format.Document{File: f.Path, Root: f.Root, Errors: f.Errors})
			return
		}
	}
	http.Error(w, "file not found in scan", http.StatusNotFound)
}
