package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"cap113/internal/port"
)

var _ port.ArticleSource = (*Walker)(nil)

// Walker lists article files under root whose slash-separated relative path
// matches pattern.
type Walker struct {
	root    string
	pattern string
}

func NewWalker(root, pattern string) *Walker {
	if pattern == "" {
		pattern = "*.json"
	}
	return &Walker{
		root:    root,
		pattern: pattern,
	}
}

// List returns matching files in lexical order.
func (w *Walker) List() ([]string, error) {
	var files []string

	err := iofs.WalkDir(os.DirFS(w.root), ".", func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matched, err := doublestar.Match(w.pattern, path)
		if err != nil {
			return err
		}
		if matched {
			files = append(files, filepath.Join(w.root, filepath.FromSlash(path)))
		}
		return nil
	})

	return files, err
}

func (w *Walker) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
