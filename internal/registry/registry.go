// Package registry is an explicit plugin registry mapping slash-separated
// paths to no-argument calls that return serialized text.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Call is a registered, stateless entry point.
type Call func() (string, error)

var (
	// ErrNotFound is returned when no call is registered under a path.
	ErrNotFound = errors.New("registry: path not found")
	// ErrExists is returned when a path is registered twice.
	ErrExists = errors.New("registry: path already registered")
	// ErrInvalidPath is returned for paths that are not absolute and clean.
	ErrInvalidPath = errors.New("registry: invalid path")
)

// DefaultContentType is reported for calls registered without a media type.
const DefaultContentType = "text/plain; charset=utf-8"

type entry struct {
	call        Call
	contentType string
}

// Registry holds named calls. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{calls: make(map[string]entry)}
}

// ValidatePath checks that path looks like "/a/b": leading slash, no empty,
// "." or ".." segments and no trailing slash.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, "/") || path == "/" || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path[1:], "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return nil
}

// Add registers call under path.
func (r *Registry) Add(path string, call Call) error {
	return r.AddWithContentType(path, DefaultContentType, call)
}

// AddWithContentType registers call under path and records the media type of
// the text it returns.
func (r *Registry) AddWithContentType(path, contentType string, call Call) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if call == nil {
		return fmt.Errorf("registry: nil call for %s", path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.calls[path]; exists {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	r.calls[path] = entry{call: call, contentType: contentType}
	return nil
}

// Remove unregisters path. It reports whether a call was removed.
func (r *Registry) Remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.calls[path]
	delete(r.calls, path)
	return exists
}

// Lookup returns the call registered under path.
func (r *Registry) Lookup(path string) (Call, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.calls[path]
	return e.call, ok
}

// ContentType returns the media type registered for path, or
// DefaultContentType when path is unknown.
func (r *Registry) ContentType(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.calls[path]; ok {
		return e.contentType
	}
	return DefaultContentType
}

// Call invokes the call registered under path. The registry lock is not
// held while the call runs.
func (r *Registry) Call(path string) (string, error) {
	call, ok := r.Lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return call()
}

// Paths returns all registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	paths := make([]string, 0, len(r.calls))
	for p := range r.calls {
		paths = append(paths, p)
	}
	r.mu.RUnlock()
	sort.Strings(paths)
	return paths
}
