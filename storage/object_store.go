// Package storage keeps uploaded photo files behind a small object-store interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrObjectExists = errors.New("object already exists")
	ErrInvalidPath  = errors.New("invalid object path")
)

// ObjectStore stores files under slash-separated paths and exposes them by URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, objectPaths ...string) error
	PublicURL(objectPath string) string
}

func cleanPath(objectPath string) (string, error) {
	p := path.Clean("/" + objectPath)[1:]
	if p == "" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return p, nil
}

func joinURL(baseURL, objectPath string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(objectPath, "/")
}

// FileObjectStore writes objects below a local directory served at baseURL.
type FileObjectStore struct {
	root    string
	baseURL string
}

func NewFileObjectStore(root, baseURL string) (*FileObjectStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %q: %w", root, err)
	}
	return &FileObjectStore{root: root, baseURL: baseURL}, nil
}

func (s *FileObjectStore) Root() string {
	return s.root
}

// Put never overwrites an existing object.
func (s *FileObjectStore) Put(ctx context.Context, objectPath string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	full := filepath.Join(s.root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create dir for %s: %w", p, err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrObjectExists, p)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return f.Close()
}

// Remove ignores objects that are already gone.
func (s *FileObjectStore) Remove(_ context.Context, objectPaths ...string) error {
	var errs []error
	for _, objectPath := range objectPaths {
		p, err := cleanPath(objectPath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		err = os.Remove(filepath.Join(s.root, filepath.FromSlash(p)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
			continue
		}
		log.Printf("[FileObjectStore] Removed %s", p)
	}
	return errors.Join(errs...)
}

func (s *FileObjectStore) PublicURL(objectPath string) string {
	return joinURL(s.baseURL, objectPath)
}

// MemoryObjectStore keeps objects in memory; used for tests and local runs.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryObjectStore(baseURL string) *MemoryObjectStore {
	return &MemoryObjectStore{objects: make(map[string][]byte), baseURL: baseURL}
}

func (s *MemoryObjectStore) Put(ctx context.Context, objectPath string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[p]; ok {
		return fmt.Errorf("%w: %s", ErrObjectExists, p)
	}
	s.objects[p] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryObjectStore) Remove(_ context.Context, objectPaths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, objectPath := range objectPaths {
		if p, err := cleanPath(objectPath); err == nil {
			delete(s.objects, p)
		}
	}
	return nil
}

func (s *MemoryObjectStore) PublicURL(objectPath string) string {
	return joinURL(s.baseURL, objectPath)
}

// Get returns a stored object, for inspection.
func (s *MemoryObjectStore) Get(objectPath string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[objectPath]
	return data, ok
}

func (s *MemoryObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
