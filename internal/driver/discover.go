package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DefaultPattern is the chart script name looked for in directories.
const DefaultPattern = "chart.py"

// DiscoverOptions control how command-line targets become script paths.
type DiscoverOptions struct {
	// All walks Root recursively instead of using explicit paths.
	All     bool
	Root    string
	Pattern string
	// Exclude lists directory names never entered by the walk.
	Exclude []string
}

func (o DiscoverOptions) pattern() string {
	if o.Pattern == "" {
		return DefaultPattern
	}
	return o.Pattern
}

// Targets resolves paths (or the --all walk) into chart scripts.
// A directory argument means the scripts matching Pattern directly inside it.
// Paths that do not exist are kept: the driver reports them as FILE_NOT_FOUND.
func Targets(paths []string, opts DiscoverOptions) ([]string, error) {
	if opts.All {
		if len(paths) > 0 {
			return nil, errors.New("--all does not take paths; use --root to pick the directory")
		}
		return walkRoot(opts)
	}
	if len(paths) == 0 {
		return nil, errors.New("no chart script given (pass a path or --all)")
	}

	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, filepath.Clean(p))
			continue
		}
		matches, err := matchInDir(p, opts.pattern())
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			// несуществующий chart.py станет FILE_NOT_FOUND
			out = append(out, filepath.Join(p, opts.pattern()))
			continue
		}
		out = append(out, matches...)
	}
	return lo.Uniq(out), nil
}

func matchInDir(dir, pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		p := filepath.Join(dir, pattern)
		if _, err := os.Stat(p); err != nil {
			return nil, nil
		}
		return []string{p}, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad discover pattern %q: %w", pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, `*?[\`)
}

// walkRoot lists every script under Root in lexical order.
func walkRoot(opts DiscoverOptions) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	exclude := lo.SliceToMap(opts.Exclude, func(name string) (string, bool) { return name, true })
	pattern := opts.pattern()

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// нечитаемый подкаталог не останавливает обход
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr != nil {
			return fmt.Errorf("bad discover pattern %q: %w", pattern, matchErr)
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}
