package file

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Watcher observes the index directory and reports shards rewritten by
// another process, letting a running server pick up external reindexing
// without a restart.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func(kind domain.Kind)
}

// NewWatcher creates a watcher over the index directory. onChange is
// called with the kind whose shard file changed.
func NewWatcher(dir string, onChange func(kind domain.Kind)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	return &Watcher{fs: fs, onChange: onChange}, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			// Renames matter too: shard saves go through a temp file
			// and rename into place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			kind, ok := kindForShard(filepath.Base(event.Name))
			if !ok {
				continue
			}
			logger.Debug("index shard %s changed on disk", event.Name)
			w.onChange(kind)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching index directory: %v", err)
		}
	}
}

// kindForShard maps a shard file name back to its entity kind.
func kindForShard(name string) (domain.Kind, bool) {
	for _, kind := range []domain.Kind{
		domain.KindProcedure,
		domain.KindStep,
		domain.KindRequirement,
		domain.KindInstitution,
	} {
		if kind.ShardFile() == name {
			return kind, true
		}
	}
	return "", false
}
