package storage

import "fmt"

// MemoryStore is a Provider that keeps blobs in process memory. Nothing
// survives Close.
type MemoryStore struct {
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.blobs = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) Load() error {
	if s.blobs == nil {
		s.blobs = make(map[string][]byte)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	if s.blobs == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	v, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if s.blobs == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if s.blobs == nil {
		return fmt.Errorf("storage not loaded")
	}
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
