package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// skippedDirs are never descended into, whatever Exclude says.
var skippedDirs = map[string]bool{
	"__pycache__":   true,
	"node_modules":  true,
	"site-packages": true,
	"venv":          true,
}

// walkError is a directory entry the walk could not read. It does not stop the walk.
type walkError struct {
	Path string
	Err  error
}

// listPyFiles возвращает отсортированный список *.py файлов под root.
// Скрытые каталоги, каталоги виртуальных окружений и совпавшие с exclude пропускаются.
// Ошибка возвращается только если сам root недоступен.
func listPyFiles(root string, exclude []string) ([]string, []walkError, error) {
	for _, pattern := range exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
	}

	var (
		files []string
		errs  []walkError
	)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			errs = append(errs, walkError{Path: p, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p != root && excluded(root, p, d.Name(), exclude) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && skipDir(p, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") && d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, errs, nil
}

func skipDir(p, name string) bool {
	if strings.HasPrefix(name, ".") || skippedDirs[name] {
		return true
	}
	// virtualenv без привычного имени узнаём по pyvenv.cfg
	_, err := os.Stat(filepath.Join(p, "pyvenv.cfg"))
	return err == nil
}

// excluded matches a pattern against the slash path relative to root and
// against the bare name.
func excluded(root, p, name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
