package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/pkg/logger"
)

// WatchlistRepository reads and writes the watchlist file.
type WatchlistRepository interface {
	// Load returns an empty watchlist and a nil error when the file does not
	// exist. Unparseable content yields an empty watchlist and a non-nil error.
	// Whenever content cannot be kept the original file is copied to
	// BackupPath first.
	Load(ctx context.Context) (entity.Watchlist, error)
	// Save replaces the file atomically.
	Save(ctx context.Context, watchlist entity.Watchlist) error
	Path() string
}

type watchlistRepository struct {
	path string
	log  *logger.Logger
}

func NewWatchlistRepository(path string, log *logger.Logger) WatchlistRepository {
	return &watchlistRepository{
		path: path,
		log:  log,
	}
}

func (r *watchlistRepository) Path() string {
	return r.path
}

func (r *watchlistRepository) Load(ctx context.Context) (entity.Watchlist, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.DebugContext(ctx, "Watchlist file not found, starting empty", logger.StringField("path", r.path))
			return entity.Watchlist{}, nil
		}
		return entity.Watchlist{}, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return entity.Watchlist{}, nil
	}

	var raw []entity.WatchEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		r.backup(ctx, data)
		return entity.Watchlist{}, fmt.Errorf("failed to decode watchlist file: %w", err)
	}

	watchlist := make(entity.Watchlist, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	dropped := 0
	for i, e := range raw {
		e = e.Normalize()
		e.Symbol = entity.CleanSymbol(e.Symbol)
		if e.Symbol == "" {
			r.log.WarnContext(ctx, "Skipping watchlist entry without a symbol", logger.IntField("index", i))
			dropped++
			continue
		}
		condition, err := entity.ParseCondition(string(e.Condition))
		if err != nil {
			r.log.WarnContext(ctx, "Skipping watchlist entry with unknown condition",
				logger.IntField("index", i), logger.StringField("symbol", e.Symbol), logger.ErrorField(err))
			dropped++
			continue
		}
		e.Condition = condition
		if _, dup := seen[e.Symbol]; dup {
			r.log.WarnContext(ctx, "Skipping duplicate watchlist entry",
				logger.IntField("index", i), logger.StringField("symbol", e.Symbol))
			dropped++
			continue
		}
		// Kept so the next save does not erase it. Its price checks report the
		// symbol as unavailable until it is edited.
		if !entity.ValidSymbol(e.Symbol) {
			r.log.WarnContext(ctx, "Keeping watchlist entry with malformed symbol",
				logger.IntField("index", i), logger.StringField("symbol", e.Symbol))
		}
		seen[e.Symbol] = struct{}{}
		watchlist = append(watchlist, e)
	}

	if dropped > 0 {
		r.backup(ctx, data)
	}
	return watchlist, nil
}

// BackupPath is where the original file is copied when a load could not keep
// every entry.
func BackupPath(path string) string {
	return path + ".bak"
}

func (r *watchlistRepository) backup(ctx context.Context, data []byte) {
	dst := BackupPath(r.path)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		r.log.ErrorContext(ctx, "Failed to back up watchlist file", logger.StringField("path", dst), logger.ErrorField(err))
		return
	}
	r.log.WarnContext(ctx, "Watchlist file backed up before it is rewritten", logger.StringField("path", dst))
}

func (r *watchlistRepository) Save(ctx context.Context, watchlist entity.Watchlist) error {
	if watchlist == nil {
		watchlist = entity.Watchlist{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(watchlist); err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watchlist directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace watchlist file: %w", err)
	}

	r.log.DebugContext(ctx, "Watchlist saved", logger.StringField("path", r.path), logger.IntField("entries", len(watchlist)))
	return nil
}
