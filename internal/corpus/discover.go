package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/shardpress/internal/logfields"
)

// Discover enumerates the Markdown files under root in deterministic
// (lexicographic by relative path) order. Hidden files and directories are
// skipped. A root that cannot be walked is a structural failure.
func Discover(root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceRootUnreadable, root)
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !isMarkdownFile(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, SourceFile{Path: path, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceRootUnreadable, root, err)
	}

	// WalkDir already visits lexically, but enumeration order is a contract
	// here (it decides duplicate-key winners), so sort explicitly.
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })

	slog.Debug("Source files enumerated", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}
