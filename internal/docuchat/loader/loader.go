// Package loader extracts plain text from uploaded documents.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Loader extracts the text content of a document file.
type Loader interface {
	// Load reads the file at path and returns its plain text.
	Load(path string) (string, error)

	// Extensions returns the file extensions this loader handles,
	// lowercase with the leading dot.
	Extensions() []string
}

// Registry maps file extensions to loaders.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry creates a registry with the default loaders for txt, md,
// pdf, and docx files.
func NewRegistry() *Registry {
	r := &Registry{loaders: make(map[string]Loader)}
	r.Register(&TextLoader{})
	r.Register(&MarkdownLoader{})
	r.Register(&PDFLoader{})
	r.Register(&DocxLoader{})
	return r
}

// Register adds a loader for each of its extensions.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		r.loaders[ext] = l
	}
}

// Supported reports whether the registry can load a file with the
// given name.
func (r *Registry) Supported(name string) bool {
	_, ok := r.loaders[normalizeExt(name)]
	return ok
}

// Extensions returns all supported extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load extracts the text of the file at path, dispatching on its
// extension.
func (r *Registry) Load(path string) (string, error) {
	ext := normalizeExt(path)
	l, ok := r.loaders[ext]
	if !ok {
		return "", fmt.Errorf("no loader for extension %q", ext)
	}
	return l.Load(path)
}

func normalizeExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
