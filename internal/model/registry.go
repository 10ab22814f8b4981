package model

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
)

var (
	// ErrArtifactNotFound is returned when the configured artifact path does not exist.
	ErrArtifactNotFound = errors.New("model artifact not found")
	// ErrAlreadyLoaded is returned when a registry that already holds a classifier is loaded again.
	ErrAlreadyLoaded = errors.New("model already loaded")
)

// Registry holds the process-wide classifier. It starts unloaded, can be
// loaded exactly once, and never unloads. Reads are lock-free.
type Registry struct {
	current atomic.Pointer[entry]
}

type entry struct {
	classifier Classifier
	source     string
}

// NewRegistry creates an unloaded Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set stores c as the registry's classifier.
// Returns ErrAlreadyLoaded if a classifier is already present.
func (r *Registry) Set(c Classifier) error {
	return r.set(c, "")
}

func (r *Registry) set(c Classifier, source string) error {
	if c == nil {
		return errors.New("nil classifier")
	}
	if !r.current.CompareAndSwap(nil, &entry{classifier: c, source: source}) {
		return ErrAlreadyLoaded
	}
	return nil
}

// LoadFile opens the artifact at path and stores it.
// If path does not exist the registry stays unloaded and ErrArtifactNotFound
// is returned; callers treat that as a warning. Any other error means the
// artifact exists but could not be decoded.
func (r *Registry) LoadFile(path string, opts Options) error {
	if r.Loaded() {
		return ErrAlreadyLoaded
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return fmt.Errorf("stat model artifact: %w", err)
	}

	c, err := Open(path, opts)
	if err != nil {
		return err
	}

	if err := r.set(c, path); err != nil {
		if closer, ok := c.(Closer); ok {
			closer.Close()
		}
		return err
	}
	return nil
}

// Current returns the loaded classifier, or false if the registry is unloaded.
func (r *Registry) Current() (Classifier, bool) {
	e := r.current.Load()
	if e == nil {
		return nil, false
	}
	return e.classifier, true
}

// Loaded reports whether a classifier has been stored.
func (r *Registry) Loaded() bool {
	return r.current.Load() != nil
}

// Source returns the artifact path the classifier was loaded from, if any.
func (r *Registry) Source() string {
	e := r.current.Load()
	if e == nil {
		return ""
	}
	return e.source
}

// Close releases native resources held by the classifier.
// The registry stays loaded; Close is meant for process shutdown.
func (r *Registry) Close() error {
	e := r.current.Load()
	if e == nil {
		return nil
	}
	if closer, ok := e.classifier.(Closer); ok {
		return closer.Close()
	}
	return nil
}
