package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"cap113/internal/port"
)

var _ port.EmbeddingCache = (*FileCache)(nil)

// FileCache is a content-addressed embedding store. Each entry is a JSON
// array in <dir>/<sha256(text)>.json. Entries never expire.
type FileCache struct {
	dir    string
	logger *zap.Logger
}

func NewFileCache(dir string, logger *zap.Logger) *FileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCache{
		dir:    dir,
		logger: logger,
	}
}

// Key returns the hex SHA-256 digest of text.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

func (c *FileCache) Dir() string {
	return c.dir
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached vector for text. Unreadable or corrupt entries
// are reported as misses.
func (c *FileCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key := Key(text)
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		c.logger.Warn("embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil || len(vec) == 0 {
		c.logger.Warn("corrupt embedding cache entry", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}

	return vec, true, nil
}

// Put stores vec under the key of text. The entry is written to a temp
// file and renamed into place so readers never see a partial entry.
func (c *FileCache) Put(ctx context.Context, text string, vec []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	key := Key(text)
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}

	return nil
}
