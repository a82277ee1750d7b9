package watcher

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreRoot pairs a watched root with the matcher compiled from its
// .gitignore.
type ignoreRoot struct {
	path    string
	matcher *ignore.GitIgnore
}

// loadGitignore compiles the .gitignore at root. Absent or unreadable files
// yield a nil matcher.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// ignored reports whether path falls under a watched root whose .gitignore
// matches it. Directories match with a trailing slash, the way git does.
func (w *Watcher) ignored(path string, isDir bool) bool {
	w.rootsMu.RLock()
	defer w.rootsMu.RUnlock()
	for _, root := range w.roots {
		rel, err := filepath.Rel(root.path, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}
		if root.matcher.MatchesPath(rel) {
			return true
		}
	}
	return false
}
