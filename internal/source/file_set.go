package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet holds the Python files of one run. IDs are dense indexes in
// registration order; the driver registers files in walk order, so iterating
// IDs is iterating the run's file order.
type FileSet struct {
	files   []File
	baseDir string // база для относительных путей в выводе
}

func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates a FileSet whose relative output paths are taken
// against baseDir (the working directory when empty).
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base for relative paths, falling back to the working
// directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of registered files.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add registers already normalised content and returns its ID. Registering
// the same path twice yields two files.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil || FileID(n) == NoFile {
		panic(fmt.Errorf("source: too many files: %d", len(fileSet.files)))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return id
}

// Load reads a .py file, strips a UTF-8 BOM, turns CRLF into LF and
// registers the result.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the directory walk or the command line
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual registers in-memory content (tests, `check -` style input, or a
// placeholder for a file that could not be read). It is normalised like Load.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, _ = normalize(content)
	return fileSet.Add(name, content, FileVirtual)
}

func normalize(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(raw)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Get returns the file with the given ID.
// An unknown ID (NoFile included) is a programming error and panics.
func (fileSet *FileSet) Get(id FileID) *File {
	f, ok := fileSet.Lookup(id)
	if !ok {
		panic(fmt.Errorf("source: unknown file id %d (have %d files)", id, len(fileSet.files)))
	}
	return f
}

// Lookup is Get without the panic: run-level diagnostics carry NoFile and
// formatters ask before resolving.
func (fileSet *FileSet) Lookup(id FileID) (*File, bool) {
	if fileSet == nil || int(id) >= len(fileSet.files) {
		return nil, false
	}
	return &fileSet.files[id], true
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Digest returns the hex-encoded content hash of the file.
func (f *File) Digest() string {
	return hex.EncodeToString(f.Hash[:])
}

// GetLine returns line lineNum (1-based) without its newline, "" when the
// file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start uint32
	if lineNum > 1 {
		if lineNum-2 >= lines {
			return ""
		}
		start = f.LineIdx[lineNum-2] + 1
	}
	end := size
	if lineNum-1 < lines {
		end = f.LineIdx[lineNum-1]
	}
	if start >= size {
		return ""
	}
	return string(f.Content[start:min(end, size)])
}

// PathStyle selects how DisplayPath renders a file path.
type PathStyle uint8

const (
	// PathAuto shows paths under the base directory relative to it and
	// everything else as registered.
	PathAuto PathStyle = iota
	PathAbsolute
	PathRelative
	PathBase
)

// DisplayPath renders f.Path in the given style. baseDir is used by the
// relative styles; errors resolving the path fall back to f.Path.
func (f *File) DisplayPath(style PathStyle, baseDir string) string {
	switch style {
	case PathAbsolute:
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathBase:
		return BaseName(f.Path)
	case PathAuto:
		if !filepath.IsAbs(filepath.FromSlash(f.Path)) || baseDir == "" {
			return f.Path
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil && !filepath.IsAbs(filepath.FromSlash(rel)) {
			return rel
		}
	}
	return f.Path
}
