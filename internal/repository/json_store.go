package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"PhonePortal/internal/domain/models"
	domrepo "PhonePortal/internal/domain/repository"
)

// JSONStore keeps a whole collection in one JSON array file. Every call
// reads the file, so edits made by hand show up without a restart.
type JSONStore[T any] struct {
	mu   sync.Mutex
	path string
	key  func(T) string
}

// NewJSONStore creates a store over path. key extracts the record id used
// by UpdateByKey.
func NewJSONStore[T any](path string, key func(T) string) *JSONStore[T] {
	return &JSONStore[T]{path: path, key: key}
}

var _ domrepo.RecordStore[models.Listing] = (*JSONStore[models.Listing])(nil)

// Path returns the backing file.
func (s *JSONStore[T]) Path() string { return s.path }

func (s *JSONStore[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore[T]) Append(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(items, rec))
}

func (s *JSONStore[T]) UpdateByKey(ctx context.Context, key string, fn func(*T) error) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return zero, err
	}
	for i := range items {
		if s.key(items[i]) != key {
			continue
		}
		if err := fn(&items[i]); err != nil {
			return zero, err
		}
		if err := s.save(items); err != nil {
			return zero, err
		}
		return items[i], nil
	}
	return zero, fmt.Errorf("%s %q: %w", filepath.Base(s.path), key, models.ErrNotFound)
}

// load treats a missing or empty file as an empty collection.
func (s *JSONStore[T]) load() ([]T, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// save writes to a temp file in the same directory and renames it over the
// original so readers never see a partial array.
func (s *JSONStore[T]) save(items []T) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
