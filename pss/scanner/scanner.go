// Package scanner runs asynchronous parse jobs over many PSS files.
//
// Each request is processed by one job goroutine that fans the files out
// to a fixed pool of workers. Workers share the read-only grammar table
// but every file gets its own parser.
package scanner

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pssparse/pss/parser"
)

var log = commonlog.GetLogger("pss.scanner")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request names the inputs of one scan: files or directories in Paths and
// optionally a zip archive whose matching entries are parsed.
type Request struct {
	ID        string
	Paths     []string
	ZipFile   string
	CreatedAt time.Time
}

// FileResult is the outcome of parsing one file.
type FileResult struct {
	Path   string
	Root   *parser.Node
	Errors []*parser.SyntaxError
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Files     []FileResult
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// SyntaxErrors returns the syntax errors of every file in path order.
func (r *Result) SyntaxErrors() []*parser.SyntaxError {
	var all []*parser.SyntaxError
	for _, f := range r.Files {
		all = append(all, f.Errors...)
	}
	return all
}

type Option func(*Scanner)

// WithWorkers sets the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithParseOptions sets the options passed to every parse.
func WithParseOptions(opts ...parser.Option) Option {
	return func(s *Scanner) {
		s.parseOpts = opts
	}
}

// WithMatcher selects which files below a directory are parsed. The
// default accepts files ending in .pss.
func WithMatcher(match func(path string) bool) Option {
	return func(s *Scanner) {
		s.match = match
	}
}

// WithSkipDir selects which directories are not descended into. The
// default skips hidden directories.
func WithSkipDir(skip func(name string) bool) Option {
	return func(s *Scanner) {
		s.skipDir = skip
	}
}

type Scanner struct {
	mu        sync.RWMutex
	scans     map[string]*Result
	done      map[string]chan struct{}
	requests  chan Request
	closeMu   sync.RWMutex
	closed    bool
	nextID    int
	workers   int
	parseOpts []parser.Option
	match     func(string) bool
	skipDir   func(string) bool
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		done:     make(map[string]chan struct{}),
		requests: make(chan Request, 100),
		workers:  runtime.NumCPU(),
		match: func(path string) bool {
			return filepath.Ext(path) == ".pss"
		},
		skipDir: func(name string) bool {
			return len(name) > 1 && name[0] == '.'
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Close stops accepting requests. Pending requests still complete.
// Closing twice is a no-op.
func (s *Scanner) Close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.requests)
}

func (s *Scanner) run() {
	for req := range s.requests {
		s.processScan(req)
	}
}

// source is one file to parse, read lazily by a worker.
type source struct {
	name string
	read func() ([]byte, error)
}

func (s *Scanner) processScan(req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	var sources []source
	var errs []string
	for _, path := range req.Paths {
		found, err := s.collect(path)
		if err != nil {
			errs = append(errs, err.Error())
		}
		sources = append(sources, found...)
	}
	var archive *zip.ReadCloser
	if req.ZipFile != "" {
		r, err := zip.OpenReader(req.ZipFile)
		if err != nil {
			errs = append(errs, fmt.Sprintf("open zip: %v", err))
		} else {
			archive = r
			sources = append(sources, s.zipSources(req.ZipFile, r)...)
		}
	}
	if len(req.Paths) == 0 && req.ZipFile == "" {
		errs = append(errs, "no paths or zip file provided")
	}

	files, parseErrs := s.parseAll(req.ID, sources)
	errs = append(errs, parseErrs...)
	if archive != nil {
		archive.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Files = files
	result.Errors = errs
	if len(errs) > 0 && len(files) == 0 {
		result.Status = StatusFailed
		result.Error = errs[0]
	} else {
		result.Status = StatusCompleted
	}
	log.Debugf("scan %s: %d files in %s", req.ID, len(files), result.EndedAt.Sub(result.StartedAt))
	close(s.done[req.ID])
}

// collect expands path into the matching files below it. A path naming a
// file is taken as is.
func (s *Scanner) collect(path string) ([]source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []source{fileSource(path)}, nil
	}
	var sources []source
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if info.IsDir() {
			if p != path && s.skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.match(p) {
			sources = append(sources, fileSource(p))
		}
		return nil
	})
	return sources, err
}

func fileSource(path string) source {
	return source{name: path, read: func() ([]byte, error) { return os.ReadFile(path) }}
}

func (s *Scanner) zipSources(zipPath string, r *zip.ReadCloser) []source {
	var sources []source
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !s.match(f.Name) {
			continue
		}
		f := f
		sources = append(sources, source{
			name: zipPath + "!" + f.Name,
			read: func() ([]byte, error) {
				rc, err := f.Open()
				if err != nil {
					return nil, err
				}
				defer rc.Close()
				return io.ReadAll(rc)
			},
		})
	}
	return sources
}

// parseAll parses sources on the worker pool. Results are returned in
// name order regardless of completion order.
func (s *Scanner) parseAll(id string, sources []source) ([]FileResult, []string) {
	s.mu.Lock()
	s.scans[id].Total = len(sources)
	s.mu.Unlock()

	jobs := make(chan int)
	files := make([]*FileResult, len(sources))
	readErrs := make([]string, len(sources))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				data, err := src.read()
				if err != nil {
					readErrs[i] = fmt.Sprintf("read %s: %v", src.name, err)
				} else {
					opts := append([]parser.Option{parser.WithFile(src.name)}, s.parseOpts...)
					root, errs := parser.Parse(data, opts...)
					files[i] = &FileResult{Path: src.name, Root: root, Errors: errs}
				}
				s.mu.Lock()
				s.scans[id].Progress++
				s.mu.Unlock()
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var results []FileResult
	var errs []string
	for i := range sources {
		if files[i] != nil {
			results = append(results, *files[i])
		}
		if readErrs[i] != "" {
			errs = append(errs, readErrs[i])
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, errs
}

// Submit queues req and returns its scan id. It returns "" once the
// scanner is closed.
func (s *Scanner) Submit(req Request) string {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		log.Warningf("scan request after close: %v", req.Paths)
		return ""
	}

	s.mu.Lock()
	s.nextID++
	req.ID = fmt.Sprintf("%d", s.nextID)
	req.CreatedAt = time.Now()

	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	s.done[req.ID] = make(chan struct{})
	s.mu.Unlock()

	s.requests <- req
	return req.ID
}

// Get returns a snapshot of the scan with the given id.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	snapshot := *result
	return &snapshot, true
}

// Wait blocks until the scan finishes or the timeout elapses. A zero
// timeout waits forever.
func (s *Scanner) Wait(id string, timeout time.Duration) (*Result, error) {
	s.mu.RLock()
	done, ok := s.done[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown scan %q", id)
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-done:
	case <-expired:
		return nil, fmt.Errorf("scan %s: timed out after %s", id, timeout)
	}
	result, _ := s.Get(id)
	return result, nil
}

func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		snapshot := *r
		results = append(results, &snapshot)
	}
	// Ids are decimal sequence numbers.
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].ID, results[j].ID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return results
}
