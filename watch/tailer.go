// Package watch tails a growing file and absorbs newly-written bytes into
// a jsonstream.Parser as they land on disk.
package watch

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/jsonstream/jsonstream"
)

// FileTailer watches path for writes and absorbs each newly-appended
// region into parser, using an fsnotify watch/event loop over a single
// append-only JSON-lines log.
type FileTailer[V any] struct {
	path   string
	parser *jsonstream.Parser[V]
	logger hclog.Logger

	watcher *fsnotify.Watcher
	file    *os.File
	offset  int64
}

// NewFileTailer opens path (which must already exist) and prepares to
// tail it from its current end-of-file. logger may be nil.
func NewFileTailer[V any](path string, parser *jsonstream.Parser[V], logger hclog.Logger) (*FileTailer[V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileTailer[V]{
		path:    path,
		parser:  parser,
		logger:  logger.Named("watch.tailer"),
		watcher: watcher,
		file:    f,
		offset:  info.Size(),
	}, nil
}

// Close stops watching and closes the underlying file.
func (t *FileTailer[V]) Close() error {
	werr := t.watcher.Close()
	ferr := t.file.Close()
	if werr != nil {
		return werr
	}
	return ferr
}

// Run blocks, absorbing newly-written bytes into the parser as fsnotify
// reports writes, until stop is closed or a fatal read/parse error occurs.
// It returns every value absorbed during the run.
func (t *FileTailer[V]) Run(stop <-chan struct{}) ([]V, error) {
	var all []V
	for {
		select {
		case <-stop:
			t.logger.Trace("tailer stopping", "path", t.path)
			return all, nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return all, nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			values, err := t.drain()
			all = append(all, values...)
			if err != nil {
				return all, err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return all, nil
			}
			return all, fmt.Errorf("watch %s: %w", t.path, err)
		}
	}
}

// drain reads every byte written since the last read and absorbs it.
func (t *FileTailer[V]) drain() ([]V, error) {
	buf := make([]byte, 32*1024)
	var all []V
	for {
		n, err := t.file.ReadAt(buf, t.offset)
		if n > 0 {
			t.offset += int64(n)
			t.logger.Trace("tailed bytes", "path", t.path, "bytes", n)
			values, aerr := t.parser.Absorb(buf[:n])
			all = append(all, values...)
			if aerr != nil {
				return all, aerr
			}
		}
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return all, fmt.Errorf("read %s: %w", t.path, err)
		}
	}
}
