// Package watch converts eISB act files as they arrive in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/fsnotify.v1"
)

// Converter turns one source act file into one output file.
type Converter func(inPath, outPath string) error

// Watcher monitors a directory for new or rewritten eISB XML files and runs
// the converter on each, writing results to the output directory.
type Watcher struct {
	inDir   string
	outDir  string
	convert Converter
	log     *zap.Logger
	fs      *fsnotify.Watcher
}

// New creates a Watcher over inDir. The converter receives the source path
// and a target path in outDir with the extension rewritten to .akn.xml.
func New(inDir, outDir string, convert Converter, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := fs.Add(inDir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", inDir, err)
	}
	return &Watcher{inDir: inDir, outDir: outDir, convert: convert, log: log, fs: fs}, nil
}

// Run processes filesystem events until the context is cancelled. Conversion
// failures are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.log.Info("watching for act files", zap.String("dir", w.inDir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".xml") || strings.HasSuffix(event.Name, ".akn.xml") {
				continue
			}
			outPath := w.outputPath(event.Name)
			w.log.Info("converting act", zap.String("in", event.Name), zap.String("out", outPath))
			if err := w.convert(event.Name, outPath); err != nil {
				w.log.Error("conversion failed", zap.String("in", event.Name), zap.Error(err))
				continue
			}
			w.log.Info("conversion complete", zap.String("out", outPath))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) outputPath(inPath string) string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, ".xml")
	base = strings.TrimSuffix(base, ".eisb")
	return filepath.Join(w.outDir, base+".akn.xml")
}
