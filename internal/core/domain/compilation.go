package domain

import (
	"strings"
	"time"
)

// Asset is a single file emitted by a compilation.
type Asset struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// CompiledResult is the outcome of one compilation of a target.
// Hash identifies the emitted output: two results with the same hash carry
// the same files.
type CompiledResult struct {
	Target      BuildTarget         `json:"target"`
	Hash        string              `json:"hash"`
	Assets      []Asset             `json:"assets"`
	Entrypoints map[string][]string `json:"entrypoints"`
	Errors      []string            `json:"errors,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	StartedAt   time.Time           `json:"-"`
	Duration    time.Duration       `json:"-"`
}

// HasErrors reports whether the compilation produced errors.
func (r *CompiledResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// ShortHash returns the first eight characters of the hash.
func (r *CompiledResult) ShortHash() string {
	if r == nil {
		return ""
	}
	if len(r.Hash) > 8 {
		return r.Hash[:8]
	}
	return r.Hash
}

// TotalSize returns the sum of all asset sizes.
func (r *CompiledResult) TotalSize() int64 {
	if r == nil {
		return 0
	}
	var total int64
	for _, a := range r.Assets {
		total += a.Size
	}
	return total
}

// EntrypointFiles returns the files for the named entrypoint with the given
// extension (".js", ".css"), preserving build order.
func (r *CompiledResult) EntrypointFiles(name, ext string) []string {
	if r == nil {
		return nil
	}
	var files []string
	for _, f := range r.Entrypoints[name] {
		if strings.HasSuffix(f, ext) {
			files = append(files, f)
		}
	}
	return files
}

// CompilationState is the per-target view kept by the watch orchestrator.
type CompilationState struct {
	Compiling bool
	LastHash  string
	LastStats *CompiledResult
	// Changed is set when a completion carried a new hash and cleared when
	// a finalizer has been scheduled for it.
	Changed bool
}
