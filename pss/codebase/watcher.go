package codebase

import (
	"io/fs"
	"time"
)

// FileWatcher polls the workspace and keeps the codebase in sync with the
// files on disk. OnChange, when set, is called with each path that was
// reparsed or removed.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	OnChange     func(path string, removed bool)
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	interval := c.Config().PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Poll()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll runs one synchronization pass.
func (w *FileWatcher) Poll() {
	current := make(map[string]bool)

	err := w.codebase.walk(func(path string, info fs.FileInfo) {
		current[path] = true
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		w.modTimes[path] = info.ModTime()
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("watch: %v", err)
			return
		}
		w.notify(path, false)
	})
	if err != nil {
		log.Warningf("watch %s: %v", w.codebase.RootDir(), err)
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			w.notify(path, true)
		}
	}
}

func (w *FileWatcher) notify(path string, removed bool) {
	if w.OnChange != nil {
		w.OnChange(path, removed)
	}
}
