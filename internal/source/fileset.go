package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the chart scripts of one run. Files are appended by the driver
// before workers start; afterwards the set is only read, so no locking.
type FileSet struct {
	files   []File
	baseDir string // "" means the working directory
}

func NewFileSet() *FileSet { return &FileSet{} }

// NewFileSetWithBase makes paths in reports relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet { return &FileSet{baseDir: baseDir} }

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir is the directory relative report paths start from.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Get panics on an id from another set.
func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

// Add stores content as a new file. Adding a path twice keeps both versions
// under different ids.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    cleanPath(path),
		Content: content,
		LineIdx: lineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// AddVirtual adds an in-memory file, e.g. from a test or for a missing path.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path, strips a UTF-8 BOM and folds CRLF line endings. The flags
// remember both so File.Restore can put them back.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the command line
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return fs.Add(path, content, flags), nil
}

// Resolve maps both ends of span to line and column.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return f.Position(span.Start), f.Position(span.End)
}
